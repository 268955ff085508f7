// Package packaging decides which live code units must be (re)packaged into
// shippable increments, and remaps per-type dependencies onto the increments
// that own them.
//
// The increment creation itself (binary rewriting) belongs to an external
// collaborator behind the Packager interface; the tracked packaging state is
// owned by the surrounding compiler/runtime state and only read here.
package packaging
