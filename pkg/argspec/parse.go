package argspec

// Parser runs the tokenize, resolve and validate pipeline against one
// command tree. It is safe for concurrent use.
type Parser struct {
	root     *CommandSpec
	defaults DefaultSource
}

// Option configures a Parser.
type Option func(*Parser)

// WithDefaultSource makes the parser consult src for defaults.
func WithDefaultSource(src DefaultSource) Option {
	return func(p *Parser) {
		p.defaults = src
	}
}

// NewParser defines root and returns a parser for it.
func NewParser(root *CommandSpec, opts ...Option) (*Parser, error) {
	if _, err := DefineCommand(root); err != nil {
		return nil, err
	}
	p := &Parser{root: root}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Root returns the command tree.
func (p *Parser) Root() *CommandSpec {
	return p.root
}

// Resolve tokenizes and resolves args without validating them.
func (p *Parser) Resolve(args []string) (*Resolution, Diagnostics) {
	return Resolve(Tokenize(args), p.root)
}

// Parse resolves and validates args. On user error it returns Diagnostics
// holding every problem found; a halted resolution skips validation.
func (p *Parser) Parse(args []string) (*Invocation, error) {
	res, diags := p.Resolve(args)
	if res.Halted() {
		return nil, diags
	}
	return p.Validate(res, diags)
}

// Validate validates res and merges the result with earlier diagnostics.
func (p *Parser) Validate(res *Resolution, earlier Diagnostics) (*Invocation, error) {
	var opts []ValidateOption
	if p.defaults != nil {
		opts = append(opts, WithDefaults(p.defaults))
	}
	inv, diags := Validate(res, opts...)

	all := append(append(Diagnostics{}, earlier...), diags...)
	if len(all) > 0 {
		return nil, all
	}
	return inv, nil
}

// Parse defines root and parses args against it.
func Parse(root *CommandSpec, args []string) (*Invocation, error) {
	p, err := NewParser(root)
	if err != nil {
		return nil, err
	}
	return p.Parse(args)
}
