// Package schema decodes element documents into domain.Element trees.
//
// A document is YAML (or JSON) describing one element:
//
//	type: div
//	props:
//	  id: app
//	  className: main
//	  onClick: increment   # resolved through a registry.Registry
//	  data-role: banner    # unknown attributes are kept as extension attributes
//	children:
//	  - type: span
//	    children: ["Hello"]
//	  - text: world
//	  - 42
//
// Scalars in a children list become text elements, as does a node with a
// single "text" key. A node without a type is a generic container; the
// reserved type "FRAGMENT" groups children without a host node.
//
// Every problem found while decoding is reported, each with the path of the
// offending node:
//
//	el, err := schema.Decode(data, schema.FormatYAML, reg)
//	for _, e := range schema.DecodeErrors(err) {
//	    log.Println(e)
//	}
package schema
