package scaffolding

// configTemplate is the starter site configuration. The feature list is
// deliberately populated so a fresh site demonstrates the homepage grid.
const configTemplate = `site:
  title: "{{.Name}}"
  tagline: "Documentation built with docsmith"
  base_url: ""
  language: "en"

homepage:
  hero:
    title: "{{.Name}}"
    tagline: "Documentation built with docsmith"
    cta_label: "Get Started"
    cta_link: "/intro/"
  features:
    - title: "Easy to Use"
      icon: "img/easy.svg"
      description: "Write your docs in Markdown and let docsmith handle the rest."
    - title: "Focus on What Matters"
      icon: "img/focus.svg"
      description: "Pages, navigation, and pagination are generated from your content tree."
    - title: "Fast by Default"
      icon: "img/fast.svg"
      description: "A static HTML site with no runtime dependencies, served from anywhere."

content:
  dir: "docs"
  static_dir: "static"

build:
  output_dir: "build"

server:
  host: "localhost"
  port: 3000

theme:
  navbar_links:
    - label: "Docs"
      url: "/intro/"
  footer_text: ""
  highlight_style: "github"
`

const introTemplate = `---
title: Introduction
position: 1
description: Getting started with {{.Name}}.
---

Welcome to **{{.Name}}**. This page was generated by ` + "`docsmith init`" + `.

## Next steps

- Edit ` + "`docs/intro.md`" + ` to change this page.
- Add Markdown files under ` + "`docs/`" + ` to create new pages.
- Run ` + "`docsmith serve`" + ` for a live-reloading preview.
`

const installationTemplate = `---
title: Installation
position: 1
---

Describe how to install your project here.

` + "```bash\ngo install example.com/yourproject@latest\n```" + `
`

const configurationTemplate = `---
title: Configuration
position: 2
---

Describe your project's configuration here. Tables, code blocks, and all
other GitHub-Flavored Markdown work out of the box:

| Option | Default | Description |
|--------|---------|-------------|
| port   | 3000    | Development server port |
`

// Placeholder feature icons. Simple enough to ship inline, distinct
// enough to tell apart on the starter homepage.
const iconEasy = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <circle cx="50" cy="50" r="40" fill="#2e8555"/>
  <path d="M32 52l12 12 24-28" stroke="#fff" stroke-width="8" fill="none" stroke-linecap="round" stroke-linejoin="round"/>
</svg>
`

const iconFocus = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <circle cx="50" cy="50" r="40" fill="none" stroke="#2e8555" stroke-width="8"/>
  <circle cx="50" cy="50" r="20" fill="none" stroke="#2e8555" stroke-width="8"/>
  <circle cx="50" cy="50" r="6" fill="#2e8555"/>
</svg>
`

const iconFast = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <path d="M58 10L26 58h18l-6 32 36-52H54z" fill="#2e8555"/>
</svg>
`
