// Package sitefs connects a build to the local filesystem: it discovers
// markdown sources, writes generated files and copies static assets.
package sitefs
