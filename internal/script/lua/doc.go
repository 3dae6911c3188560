// Package lua runs bound commands as Lua chunks.
//
// An Interp is a gopher-lua state with the base, table, string and math
// libraries and nothing that reaches the file system: dofile, loadfile,
// load, loadstring and require are removed, and print writes to a
// caller-supplied function instead of standard output.
//
// Each Eval compiles and runs one chunk under a timeout. Two built-ins
// control what happens to the commands queued after it for the same event:
//
//	skip()   -- end this command; the next one still runs
//	stop()   -- end this command and drop the rest
//
// Applications add their own functions with Register or RegisterFunc.
package lua
