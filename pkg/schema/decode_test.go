package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/registry"
	"github.com/aretw0/reactless/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appYAML = `
type: div
props:
  id: app
  className: main
  data-role: banner
  onClick: increment
children:
  - type: span
    children: ["Hello"]
  - text: world
  - 42
  - 1.5
  - type: FRAGMENT
    children:
      - type: p
`

func TestDecode_YAML(t *testing.T) {
	reg := registry.NewRegistry()
	inc := reg.Register("increment", func(domain.Event) {})

	el, err := schema.Decode([]byte(appYAML), schema.FormatYAML, reg)
	require.NoError(t, err)

	assert.Equal(t, "div", el.Type)
	assert.Equal(t, "app", el.Props.ID)
	assert.Equal(t, "main", el.Props.ClassName)
	assert.Equal(t, map[string]string{"data-role": "banner"}, el.Props.Attrs)
	assert.Same(t, inc, el.Props.Handlers["onClick"])

	require.Len(t, el.Props.Children, 5)
	span := el.Props.Children[0]
	assert.Equal(t, "span", span.Type)
	require.Len(t, span.Props.Children, 1)
	assert.Equal(t, domain.TextElement, span.Props.Children[0].Type)
	assert.Equal(t, "Hello", span.Props.Children[0].Props.NodeValue)

	assert.Equal(t, "world", el.Props.Children[1].Props.NodeValue)
	assert.Equal(t, "42", el.Props.Children[2].Props.NodeValue)
	assert.Equal(t, "1.5", el.Props.Children[3].Props.NodeValue)

	frag := el.Props.Children[4]
	assert.Equal(t, domain.Fragment, frag.Type)
	require.Len(t, frag.Props.Children, 1)
	assert.Equal(t, "p", frag.Props.Children[0].Type)
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"type": "ul", "props": {"title": "list", "tabindex": 3}, "children": [
		{"type": "li", "children": ["a"]},
		{"children": [7]}
	]}`

	el, err := schema.Decode([]byte(doc), schema.FormatJSON, nil)
	require.NoError(t, err)

	assert.Equal(t, "ul", el.Type)
	assert.Equal(t, "list", el.Props.Title)
	assert.Equal(t, map[string]string{"tabindex": "3"}, el.Props.Attrs)
	require.Len(t, el.Props.Children, 2)
	assert.Empty(t, el.Props.Children[1].Type, "the runtime defaults missing types")
	assert.Equal(t, "7", el.Props.Children[1].Props.Children[0].Props.NodeValue)
}

func TestDecode_RootListIsFragment(t *testing.T) {
	el, err := schema.Decode([]byte("- a\n- type: b\n"), schema.FormatYAML, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Fragment, el.Type)
	require.Len(t, el.Props.Children, 2)
	assert.Equal(t, "b", el.Props.Children[1].Type)
}

func TestDecode_CollectsEveryError(t *testing.T) {
	doc := `
type: div
colour: red
props:
  onClick: missing
  style: {color: red}
children:
  - type: span
    props:
      onHover: 3
  - text: x
    type: p
`
	reg := registry.NewRegistry()
	_, err := schema.Decode([]byte(doc), schema.FormatYAML, reg)
	require.Error(t, err)

	errs := schema.DecodeErrors(err)
	require.Len(t, errs, 1, "an unknown key rejects the node before its children are visited")

	var de *schema.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "document", de.Path)
	assert.Contains(t, de.Reason, "colour")

	doc = `
type: div
props:
  onClick: missing
  style: {color: red}
children:
  - type: span
    props:
      onHover: 3
  - text: x
    type: p
`
	_, err = schema.Decode([]byte(doc), schema.FormatYAML, reg)
	errs = schema.DecodeErrors(err)
	require.Len(t, errs, 4)

	paths := make([]string, 0, len(errs))
	for _, e := range errs {
		var de *schema.DecodeError
		require.ErrorAs(t, e, &de)
		paths = append(paths, de.Path)
	}
	assert.Equal(t, []string{
		"document.props.onClick",
		"document.props.style",
		"document.children[0].props.onHover",
		"document.children[1]",
	}, paths)
	assert.Contains(t, err.Error(), "4 decoding errors")
}

func TestDecode_HandlersNeedRegistry(t *testing.T) {
	_, err := schema.Decode([]byte("type: button\nprops: {onClick: go}\n"), schema.FormatYAML, nil)
	assert.ErrorContains(t, err, `no handler registry to resolve "go"`)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := schema.Decode([]byte("type: [unclosed"), schema.FormatYAML, nil)
	assert.ErrorContains(t, err, "failed to parse yaml document")

	_, err = schema.Decode([]byte(""), schema.FormatYAML, nil)
	assert.ErrorContains(t, err, "empty document")

	_, err = schema.Decode([]byte("{"), schema.FormatJSON, nil)
	assert.ErrorContains(t, err, "failed to parse json document")
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"type": "p", "children": ["hi"]}`), 0o644))

	el, err := schema.DecodeFile(jsonPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "p", el.Type)

	_, err = schema.DecodeFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read document")

	assert.Equal(t, schema.FormatJSON, schema.FormatOf("a/b.JSON"))
	assert.Equal(t, schema.FormatYAML, schema.FormatOf("a/b.yml"))
}
