// Package workspace manages the directory a build writes into.
//
// With staging enabled the build writes into a sibling directory
// (<output>_stage) which is promoted over the output directory only after
// every file was written. The previous output is moved to <output>.prev
// during the swap and removed afterwards, so a failed build leaves the last
// good site untouched.
//
// Without staging the output directory is wiped and written in place.
package workspace
