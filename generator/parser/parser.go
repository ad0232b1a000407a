package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/shadergen/generator/core"
	"github.com/spaghettifunk/shadergen/generator/metadata"
)

// FragmentDefine is the flag guarding the fragment-only region of a source.
var FragmentDefine = metadata.ShaderStageFragment.Define()

// qualifiers that may sit between a layout(...) and the storage keyword.
var memoryQualifiers = map[string]bool{
	"readonly":  true,
	"writeonly": true,
	"coherent":  true,
	"volatile":  true,
	"restrict":  true,
	"flat":      true,
	"highp":     true,
	"mediump":   true,
	"lowp":      true,
}

type layoutQualifier struct {
	name  string
	value string
}

// Parser walks the token stream of one source and collects its bindings.
type Parser struct {
	path   string
	tokens []Token
	pos    int

	fragStart int
	fragEnd   int

	refl *metadata.ShaderReflection
}

// Parse scans source for uniform blocks, bare uniforms, storage buffers and
// fragment outputs. name becomes the reflection name and path is only used in
// error messages.
//
// A source without an "#ifdef FRAGMENT" region is rejected with a
// *core.ParseError, because outputs are only discovered inside that region.
func Parse(name, path, source string) (*metadata.ShaderReflection, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, &core.ParseError{Path: path, Msg: err.Error()}
	}

	start, end, ok := fragmentRegion(tokens)
	if !ok {
		return nil, &core.ParseError{Path: path, Msg: "no fragment region found"}
	}

	p := &Parser{
		path:      path,
		tokens:    tokens,
		fragStart: start,
		fragEnd:   end,
		refl: &metadata.ShaderReflection{
			Name:       name,
			SourcePath: path,
		},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.refl, nil
}

func (p *Parser) parse() error {
	for p.tokens[p.pos].Kind != TokenEOF {
		if p.tokens[p.pos].is(TokenIdent, "layout") {
			if err := p.declaration(); err != nil {
				return err
			}
			continue
		}
		p.pos++
	}
	return nil
}

// declaration parses one layout-qualified declaration starting at p.pos.
// Shapes the generator does not know about are skipped.
func (p *Parser) declaration() error {
	begin := p.pos
	line := p.tokens[begin].Line
	p.pos++

	matched, err := p.tryDeclaration(begin)
	if err != nil {
		return err
	}
	if !matched {
		core.LogDebug("%s:%d: skipping unrecognised layout declaration", p.path, line)
		p.pos = begin + 1
	}
	return nil
}

func (p *Parser) tryDeclaration(begin int) (bool, error) {
	quals, ok := p.layoutQualifiers()
	if !ok {
		return false, nil
	}

	storage := p.next()
	for storage.Kind == TokenIdent && memoryQualifiers[storage.Text] {
		storage = p.next()
	}
	if storage.Kind != TokenIdent {
		return false, nil
	}

	switch storage.Text {
	case "uniform":
		binding, ok, err := p.uintQualifier(quals, "binding")
		if err != nil || !ok {
			return false, err
		}
		return p.uniform(binding)
	case "buffer":
		binding, ok, err := p.uintQualifier(quals, "binding")
		if err != nil || !ok {
			return false, err
		}
		return p.storageBuffer(binding)
	case "out":
		if begin <= p.fragStart || begin >= p.fragEnd {
			return false, nil
		}
		location, ok, err := p.uintQualifier(quals, "location")
		if err != nil || !ok {
			return false, err
		}
		return p.output(location)
	}
	return false, nil
}

// layoutQualifiers parses "( name [= value] {, name [= value]} )".
func (p *Parser) layoutQualifiers() ([]layoutQualifier, bool) {
	if !p.next().is(TokenPunct, "(") {
		return nil, false
	}
	var quals []layoutQualifier
	for {
		name := p.next()
		if name.Kind != TokenIdent {
			return nil, false
		}
		q := layoutQualifier{name: name.Text}
		sep := p.next()
		if sep.is(TokenPunct, "=") {
			value := p.next()
			if value.Kind != TokenNumber && value.Kind != TokenIdent {
				return nil, false
			}
			q.value = value.Text
			sep = p.next()
		}
		quals = append(quals, q)
		switch {
		case sep.is(TokenPunct, ","):
			continue
		case sep.is(TokenPunct, ")"):
			return quals, true
		default:
			return nil, false
		}
	}
}

func (p *Parser) uintQualifier(quals []layoutQualifier, name string) (uint32, bool, error) {
	for _, q := range quals {
		if q.name != name {
			continue
		}
		v, err := strconv.ParseUint(q.value, 0, 32)
		if err != nil {
			return 0, false, p.errorf(p.tokens[p.pos-1].Line, "invalid %s value %q", name, q.value)
		}
		return uint32(v), true, nil
	}
	return 0, false, nil
}

func (p *Parser) uniform(binding uint32) (bool, error) {
	first := p.next()
	if first.Kind != TokenIdent {
		return false, nil
	}

	if p.peek().is(TokenPunct, "{") {
		p.next()
		return p.uniformBlock(binding, first)
	}

	name := p.next()
	if name.Kind != TokenIdent || !p.next().is(TokenPunct, ";") {
		return false, nil
	}
	kind, err := metadata.DescriptorKindFromType(first.Text)
	if err != nil {
		return false, p.errorf(first.Line, "uniform %s: %v", name.Text, err)
	}
	p.refl.Uniforms = append(p.refl.Uniforms, metadata.ScalarUniform{
		Name:     name.Text,
		GlslType: first.Text,
		Binding:  binding,
		Kind:     kind,
		Stages:   p.stageAnnotation(name.Text),
		Line:     first.Line,
	})
	return true, nil
}

func (p *Parser) uniformBlock(binding uint32, structName Token) (bool, error) {
	members, err := p.blockMembers(structName)
	if err != nil {
		return false, err
	}

	alias := p.next()
	if alias.Kind != TokenIdent || !p.next().is(TokenPunct, ";") {
		return false, nil
	}
	p.refl.Blocks = append(p.refl.Blocks, metadata.UniformBlock{
		Binding:    binding,
		StructName: structName.Text,
		Members:    members,
		Alias:      alias.Text,
		Stages:     p.stageAnnotation(alias.Text),
		Line:       structName.Line,
	})
	return true, nil
}

// blockMembers reads "type name;" pairs up to the first closing brace. Leading
// qualifiers such as precision are ignored. Nested braces and arrays are not
// supported and are reported rather than guessed at.
func (p *Parser) blockMembers(structName Token) ([]metadata.BlockMember, error) {
	var (
		members []metadata.BlockMember
		words   []Token
	)
	for {
		tok := p.next()
		switch {
		case tok.Kind == TokenEOF:
			return nil, p.errorf(structName.Line, "block %s: missing closing brace", structName.Text)
		case tok.Kind == TokenIdent:
			words = append(words, tok)
		case tok.is(TokenPunct, ";"):
			if len(words) < 2 {
				return nil, p.errorf(tok.Line, "block %s: malformed member declaration", structName.Text)
			}
			typ, name := words[len(words)-2], words[len(words)-1]
			glslType, err := metadata.GlslTypeFromString(typ.Text)
			if err != nil {
				return nil, p.errorf(typ.Line, "block %s: member %s: %v", structName.Text, name.Text, err)
			}
			members = append(members, metadata.BlockMember{Name: name.Text, Type: glslType})
			words = words[:0]
		case tok.is(TokenPunct, "}"):
			if len(words) > 0 {
				return nil, p.errorf(tok.Line, "block %s: member %s is missing ';'", structName.Text, words[len(words)-1].Text)
			}
			return members, nil
		case tok.is(TokenPunct, "{"):
			return nil, p.errorf(tok.Line, "block %s: nested braces are not supported", structName.Text)
		case tok.is(TokenPunct, "["):
			return nil, p.errorf(tok.Line, "block %s: array members are not supported", structName.Text)
		default:
			return nil, p.errorf(tok.Line, "block %s: unexpected %s", structName.Text, tok)
		}
	}
}

func (p *Parser) storageBuffer(binding uint32) (bool, error) {
	name := p.next()
	if name.Kind != TokenIdent || !p.next().is(TokenPunct, "{") {
		return false, nil
	}
	for {
		tok := p.next()
		if tok.Kind == TokenEOF {
			return false, p.errorf(name.Line, "buffer %s: missing closing brace", name.Text)
		}
		if tok.is(TokenPunct, "{") {
			return false, p.errorf(tok.Line, "buffer %s: nested braces are not supported", name.Text)
		}
		if tok.is(TokenPunct, "}") {
			break
		}
	}

	sb := metadata.StorageBuffer{
		Name:    name.Text,
		Binding: binding,
		Stages:  metadata.AllStages,
		Line:    name.Line,
	}
	tok := p.next()
	if tok.Kind == TokenIdent {
		sb.Instance = tok.Text
		tok = p.next()
	}
	if !tok.is(TokenPunct, ";") {
		return false, nil
	}
	p.refl.StorageBuffers = append(p.refl.StorageBuffers, sb)
	return true, nil
}

func (p *Parser) output(location uint32) (bool, error) {
	typ := p.next()
	name := p.next()
	if typ.Kind != TokenIdent || name.Kind != TokenIdent || !p.next().is(TokenPunct, ";") {
		return false, nil
	}

	out := metadata.OutputVariable{
		Location: location,
		Name:     name.Text,
		GlslType: typ.Text,
		Format:   metadata.DefaultPixelFormat,
		Line:     typ.Line,
	}
	if tok := p.tokens[p.pos]; tok.Kind == TokenBlockComment {
		if text, ok := outputAnnotationText(tok); ok {
			p.pos++
			format, err := ParseOutputAnnotation(text)
			if err != nil {
				p.warn(&core.AnnotationError{Line: tok.Line, Annotation: text, Err: err})
			}
			out.Format = format
		}
	}
	p.refl.Outputs = append(p.refl.Outputs, out)
	return true, nil
}

// stageAnnotation resolves the line comment that follows the ';' just consumed,
// if it sits on the same line.
func (p *Parser) stageAnnotation(name string) metadata.StageSet {
	semi := p.tokens[p.pos-1]
	tok := p.tokens[p.pos]
	if tok.Kind != TokenLineComment || tok.Line != semi.Line {
		return ResolveStages("", false)
	}
	p.pos++

	comment := stageComment(tok)
	stages := ResolveStages(comment, true)
	if stages.IsEmpty() {
		p.warn(fmt.Errorf("line %d: %s: stage annotation %q names no known stage, binding is visible to no stage", tok.Line, name, comment))
	}
	return stages
}

// next returns the next significant token, skipping comments and directives.
// It never moves past EOF.
func (p *Parser) next() Token {
	p.skipTrivia()
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) peek() Token {
	p.skipTrivia()
	return p.tokens[p.pos]
}

func (p *Parser) skipTrivia() {
	for {
		tok := p.tokens[p.pos]
		if !tok.isComment() && tok.Kind != TokenDirective {
			return
		}
		p.pos++
	}
}

func (p *Parser) warn(err error) {
	core.LogWarn("%s: %v", p.path, err)
	p.refl.Warnings = append(p.refl.Warnings, err)
}

func (p *Parser) errorf(line int, format string, args ...interface{}) error {
	return &core.ParseError{Path: p.path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// fragmentRegion returns the token indices of the "#ifdef FRAGMENT" directive
// and of its matching "#endif". Nested conditionals are balanced.
func fragmentRegion(tokens []Token) (int, int, bool) {
	for i, tok := range tokens {
		if tok.Kind != TokenDirective {
			continue
		}
		name, arg := directiveFields(tok)
		if name != "ifdef" || arg != FragmentDefine {
			continue
		}
		depth := 1
		for j := i + 1; j < len(tokens); j++ {
			if tokens[j].Kind != TokenDirective {
				continue
			}
			switch n, _ := directiveFields(tokens[j]); n {
			case "if", "ifdef", "ifndef":
				depth++
			case "endif":
				depth--
				if depth == 0 {
					return i, j, true
				}
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}

func directiveFields(tok Token) (string, string) {
	fields := strings.Fields(strings.TrimPrefix(tok.Text, "#"))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], fields[1]
}
