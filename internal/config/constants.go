package config

const SourceFileExt = ".rhm"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".rhm", ".rh"}

// BundleFileExt is the extension of compiled bytecode files.
const BundleFileExt = ".rhmb"

// ConfigFileName is the optional per-project configuration file.
const ConfigFileName = "rhm.yml"

// Built-in function names
const (
	PrintFuncName = "print"
)

// Built-in global names
const (
	PiGlobalName = "pi"
)

// VM capacity limits. These are hard bounds, not tunables: register and
// local indices travel through the instruction stream as single bytes.
const (
	NumRegisters = 256
	NumLocals    = 16
)
