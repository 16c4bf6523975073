package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffProps(t *testing.T) {
	clickA := &Listener{Name: "a"}
	clickB := &Listener{Name: "b"}
	hover := &Listener{Name: "hover"}

	tests := []struct {
		name string
		prev Props
		next Props
		want PropsDiff
	}{
		{
			name: "Identical Bags",
			prev: Props{ID: "app", Handlers: map[string]*Listener{"onClick": clickA}},
			next: Props{ID: "app", Handlers: map[string]*Listener{"onClick": clickA}},
			want: PropsDiff{},
		},
		{
			name: "Attribute Changed",
			prev: Props{ID: "app", Title: "old"},
			next: Props{ID: "app", Title: "new"},
			want: PropsDiff{SetAttrs: []AttrChange{{Name: AttrTitle, Value: "new"}}},
		},
		{
			name: "Attribute Removed",
			prev: Props{ID: "app", ClassName: "x"},
			next: Props{ID: "app"},
			want: PropsDiff{RemovedAttrs: []string{AttrClassName}},
		},
		{
			name: "Handler Swapped",
			prev: Props{Handlers: map[string]*Listener{"onClick": clickA}},
			next: Props{Handlers: map[string]*Listener{"onClick": clickB}},
			want: PropsDiff{
				RemovedHandlers: []HandlerChange{{Event: "click", Listener: clickA}},
				AddedHandlers:   []HandlerChange{{Event: "click", Listener: clickB}},
			},
		},
		{
			name: "Handler Added And Removed",
			prev: Props{Handlers: map[string]*Listener{"onClick": clickA}},
			next: Props{Handlers: map[string]*Listener{"onMouseOver": hover}},
			want: PropsDiff{
				RemovedHandlers: []HandlerChange{{Event: "click", Listener: clickA}},
				AddedHandlers:   []HandlerChange{{Event: "mouseover", Listener: hover}},
			},
		},
		{
			name: "Text Value Changed",
			prev: Props{NodeValue: "B"},
			next: Props{NodeValue: "C"},
			want: PropsDiff{SetAttrs: []AttrChange{{Name: AttrNodeValue, Value: "C"}}},
		},
		{
			name: "Children Are Not Attributes",
			prev: Props{Children: []Element{{Type: "span"}}},
			next: Props{},
			want: PropsDiff{},
		},
		{
			name: "Extension Attributes",
			prev: Props{Attrs: map[string]string{"role": "button", "lang": "en"}},
			next: Props{Attrs: map[string]string{"role": "link"}},
			want: PropsDiff{
				RemovedAttrs: []string{"lang"},
				SetAttrs:     []AttrChange{{Name: "role", Value: "link"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffProps(tt.prev, tt.next)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.IsEmpty(), got.IsEmpty())
		})
	}
}

func TestHandlerNames(t *testing.T) {
	assert.True(t, IsHandler("onClick"))
	assert.True(t, IsHandler("onMouseOver"))
	assert.False(t, IsHandler("on"))
	assert.False(t, IsHandler("one"))
	assert.False(t, IsHandler("title"))

	assert.Equal(t, "click", EventName("onClick"))
	assert.Equal(t, "onClick", HandlerName("click"))
}

func TestProps_Attributes(t *testing.T) {
	p := Props{
		ID:       "app",
		Attrs:    map[string]string{"id": "shadowed", "role": "main", "empty": "", "onClick": "x"},
		Children: []Element{{Type: "span"}},
	}

	assert.Equal(t, map[string]string{"id": "app", "role": "main"}, p.Attributes())
}

func TestSnapshot_Outline(t *testing.T) {
	s := Snapshot{
		Tag:   "div",
		Attrs: map[string]string{"id": "app"},
		Children: []Snapshot{
			{Tag: "span", Children: []Snapshot{{Tag: TextElement, Value: "A"}}},
			{Tag: "span", Listeners: []string{"click"}, Children: []Snapshot{{Tag: TextElement, Value: "B"}}},
		},
	}

	assert.Equal(t, "AB", s.Text())
	assert.Equal(t, 5, s.Count())
	assert.Equal(t, "<div id=\"app\">\n  <span>\n    \"A\"\n  <span @click>\n    \"B\"\n", s.String())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnCommit: func(_ context.Context, _ *CommitEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnCommit:   func(_ context.Context, _ *CommitEvent) { calls = append(calls, "b") },
		OnMutation: func(_ context.Context, _ *MutationEvent) { calls = append(calls, "m") },
	}

	merged := a.Merge(b)
	merged.OnCommit(context.Background(), &CommitEvent{})
	merged.OnMutation(context.Background(), &MutationEvent{})

	assert.Nil(t, merged.OnSlice)
	assert.Equal(t, []string{"a", "b", "m"}, calls)
}
