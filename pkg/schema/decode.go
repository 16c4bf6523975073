package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/reactless/pkg/domain"
)

// Format is the serialization of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Resolver finds the listener behind a handler name. *registry.Registry implements it.
type Resolver interface {
	Lookup(name string) (*domain.Listener, bool)
}

const rootPath = "document"

// elementDoc is the shape of a non-scalar node.
type elementDoc struct {
	Type     string         `mapstructure:"type"`
	Text     any            `mapstructure:"text"`
	Props    map[string]any `mapstructure:"props"`
	Children []any          `mapstructure:"children"`
}

// Decode parses data and converts it into an element tree.
// Handler properties are resolved through handlers, which may be nil for
// documents without handlers.
func Decode(data []byte, format Format, handlers Resolver) (domain.Element, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Element{}, fmt.Errorf("failed to parse json document: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Element{}, fmt.Errorf("failed to parse yaml document: %w", err)
		}
	}
	if raw == nil {
		return domain.Element{}, &DecodeError{Path: rootPath, Reason: "empty document"}
	}

	d := &decoder{handlers: handlers}
	var el domain.Element
	if items, ok := raw.([]any); ok {
		el = domain.Element{Type: domain.Fragment, Props: domain.Props{Children: d.children(rootPath, items)}}
	} else {
		el, _ = d.element(rootPath, raw)
	}

	if len(d.errs) > 0 {
		return domain.Element{}, &AggregateError{Errors: d.errs}
	}
	return el, nil
}

// DecodeFile reads and decodes the document at path, choosing the format by extension.
func DecodeFile(path string, handlers Resolver) (domain.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Element{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(data, FormatOf(path), handlers)
}

type decoder struct {
	handlers Resolver
	errs     []error
}

func (d *decoder) fail(path, reason string, value any) {
	d.errs = append(d.errs, &DecodeError{Path: path, Reason: reason, Value: value})
}

// element converts one node. ok is false when the node yields no element.
func (d *decoder) element(path string, raw any) (domain.Element, bool) {
	if raw == nil {
		return domain.Element{}, false
	}
	if s, ok := scalarString(raw); ok {
		return textElement(s), true
	}

	switch raw.(type) {
	case map[string]any, map[any]any:
	default:
		d.fail(path, "expected a scalar or a mapping", raw)
		return domain.Element{}, false
	}

	var doc elementDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		d.fail(path, err.Error(), nil)
		return domain.Element{}, false
	}
	if err := dec.Decode(raw); err != nil {
		d.fail(path, err.Error(), nil)
		return domain.Element{}, false
	}

	if doc.Text != nil {
		return d.textNode(path, doc)
	}

	el := domain.Element{
		Type:  doc.Type,
		Props: d.props(path+".props", doc.Props),
	}
	if doc.Type == domain.TextElement {
		if len(doc.Children) > 0 {
			d.fail(path, "text elements have no children", nil)
		}
		return el, true
	}
	el.Props.Children = d.children(path, doc.Children)
	return el, true
}

func (d *decoder) textNode(path string, doc elementDoc) (domain.Element, bool) {
	s, ok := scalarString(doc.Text)
	if !ok {
		d.fail(path+".text", "expected a scalar", doc.Text)
		return domain.Element{}, false
	}
	if doc.Type != "" && doc.Type != domain.TextElement {
		d.fail(path, fmt.Sprintf("text node cannot have type %q", doc.Type), nil)
	}
	if len(doc.Props) > 0 || len(doc.Children) > 0 {
		d.fail(path, "text node cannot have props or children", nil)
	}
	return textElement(s), true
}

func (d *decoder) children(path string, items []any) []domain.Element {
	out := make([]domain.Element, 0, len(items))
	for i, item := range items {
		if el, ok := d.element(fmt.Sprintf("%s.children[%d]", path, i), item); ok {
			out = append(out, el)
		}
	}
	return out
}

// props splits a property map into known attributes, handlers and extension attributes.
func (d *decoder) props(path string, raw map[string]any) domain.Props {
	var p domain.Props
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		keyPath := path + "." + key

		if domain.IsHandler(key) {
			if l := d.handler(keyPath, value); l != nil {
				if p.Handlers == nil {
					p.Handlers = make(map[string]*domain.Listener)
				}
				p.Handlers[key] = l
			}
			continue
		}
		if key == "children" {
			d.fail(keyPath, "children belong to the node, not to its props", nil)
			continue
		}

		s, ok := scalarString(value)
		if !ok {
			d.fail(keyPath, "attribute value must be a scalar", value)
			continue
		}
		switch key {
		case domain.AttrID:
			p.ID = s
		case domain.AttrTitle:
			p.Title = s
		case domain.AttrClassName:
			p.ClassName = s
		case domain.AttrNodeValue:
			p.NodeValue = s
		default:
			if p.Attrs == nil {
				p.Attrs = make(map[string]string)
			}
			p.Attrs[key] = s
		}
	}
	return p
}

func (d *decoder) handler(path string, value any) *domain.Listener {
	name, ok := value.(string)
	if !ok || name == "" {
		d.fail(path, "handler must name a registered handler", value)
		return nil
	}
	if d.handlers == nil {
		d.fail(path, fmt.Sprintf("no handler registry to resolve %q", name), nil)
		return nil
	}
	l, ok := d.handlers.Lookup(name)
	if !ok {
		d.fail(path, fmt.Sprintf("unknown handler %q", name), nil)
		return nil
	}
	return l
}

func textElement(s string) domain.Element {
	return domain.Element{Type: domain.TextElement, Props: domain.Props{NodeValue: s}}
}

// scalarString renders YAML and JSON scalars the way they were written.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	}
	return "", false
}
