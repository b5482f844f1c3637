// Package format prints terms in Erlang literal syntax and parses them back.
//
// Printing follows the shell's notation with two additions for values the
// shell shows opaquely:
//
//	#pid{node@host,Id,Serial}       creation appended when non-zero
//	#ref{node@host,Id1,Id2,Id3}
//
// Binaries that are printable ASCII print as <<"text">>, others as
// <<1,2,3>>. Map keys and values are separated by " => ".
//
// Parse accepts everything Term prints (outside Compact mode) plus
// % line comments and whitespace anywhere between tokens.
package format
