// Package templates composes final HTML pages from a layout and two partials
// using a small closed set of placeholders:
//
//	{{HEADER}} {{FOOTER}} {{TITLE}} {{CONTENT}} {{PREFIX}} {{VERSION}}
//
// Composition runs in three phases. Partials are resolved first, then the
// layout is substituted in a single pass so text injected by one placeholder
// is never rescanned for another, and finally {{VERSION}} is replaced
// everywhere. Unknown placeholders are left untouched.
package templates
