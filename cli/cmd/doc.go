// Package cmd implements the lispfront subcommands.
//
// Every command reads a program one line per unit, drives a
// [session.Session] over it, and prints to the kong context's standard
// output. Session options chosen on the command line are passed down with
// [WithSessionOptions].
package cmd

// HistoryIdentifier is the kong variable identifier containing the path to
// the REPL history file.
const HistoryIdentifier = "history"
