package vm

// Program is a compiled instruction stream, the only interface between the
// compiler and the virtual machine.
type Program struct {
	// Code is the byte-encoded instructions
	Code []byte

	// Names pool - string literals, function names, global names
	Names []string

	// Lines maps instruction offset to source line number (for errors)
	Lines []int

	// File is the source file name
	File string
}

// NewProgram creates a new empty program
func NewProgram() *Program {
	return &Program{
		Code:  make([]byte, 0, 64),
		Names: make([]string, 0, 8),
		Lines: make([]int, 0, 64),
	}
}

// Write adds a byte to the stream with line info
func (p *Program) Write(b byte, line int) {
	p.Code = append(p.Code, b)
	p.Lines = append(p.Lines, line)
}

// WriteOp writes an opcode to the stream
func (p *Program) WriteOp(op Opcode, line int) {
	p.Write(byte(op), line)
}

// AddName interns a string in the name pool and returns its index
func (p *Program) AddName(s string) int {
	for i, n := range p.Names {
		if n == s {
			return i
		}
	}
	p.Names = append(p.Names, s)
	return len(p.Names) - 1
}

// WriteNameIndex writes a 2-byte name pool index (allows up to 65535 names)
func (p *Program) WriteNameIndex(idx int, line int) {
	p.Write(byte(idx>>8), line)
	p.Write(byte(idx), line)
}

// ReadNameIndex reads a 2-byte name pool index at offset
func (p *Program) ReadNameIndex(offset int) int {
	return int(p.Code[offset])<<8 | int(p.Code[offset+1])
}

// Len returns the number of bytes in the stream
func (p *Program) Len() int {
	return len(p.Code)
}
