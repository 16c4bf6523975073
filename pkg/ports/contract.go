package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/reactless/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-test-snapshot-" + time.Now().Format("20060102150405")

	snap := &domain.Snapshot{
		Tag:   "div",
		Attrs: map[string]string{"id": "app"},
		Children: []domain.Snapshot{
			{Tag: domain.TextElement, Value: "hello"},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, id, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Tag, loaded.Tag)
		assert.Equal(t, "app", loaded.Attrs["id"])
		assert.Equal(t, "hello", loaded.Text())
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, snap))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Attrs["id"] = "mutated"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "app", again.Attrs["id"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, snap))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, snap)
		_ = store.Save(ctx, id2, snap)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunHostContract runs a suite of tests to verify that an InspectableHost implementation
// applies mutations the way the commit phase expects.
func RunHostContract(t *testing.T, host InspectableHost) {
	t.Run("Append Preserves Order", func(t *testing.T) {
		parent := host.CreateElement("ul")
		for _, v := range []string{"a", "b", "c"} {
			li := host.CreateElement("li")
			host.AppendChild(li, host.CreateText(v))
			host.AppendChild(parent, li)
		}

		snap := host.Snapshot(parent)
		require.Len(t, snap.Children, 3)
		assert.Equal(t, "abc", snap.Text())
	})

	t.Run("Remove Child", func(t *testing.T) {
		parent := host.CreateElement("div")
		first := host.CreateElement("span")
		second := host.CreateElement("p")
		host.AppendChild(parent, first)
		host.AppendChild(parent, second)

		host.RemoveChild(parent, first)

		children := host.Children(parent)
		require.Len(t, children, 1)
		assert.Equal(t, second, children[0])
	})

	t.Run("Attributes", func(t *testing.T) {
		node := host.CreateElement("div")
		host.SetAttribute(node, domain.AttrID, "app")
		host.SetAttribute(node, domain.AttrTitle, "t")
		host.RemoveAttribute(node, domain.AttrTitle)

		snap := host.Snapshot(node)
		assert.Equal(t, map[string]string{domain.AttrID: "app"}, snap.Attrs)
	})

	t.Run("Text Value", func(t *testing.T) {
		node := host.CreateText("before")
		host.SetAttribute(node, domain.AttrNodeValue, "after")

		snap := host.Snapshot(node)
		assert.Equal(t, domain.TextElement, snap.Tag)
		assert.Equal(t, "after", snap.Value)
	})

	t.Run("Listeners", func(t *testing.T) {
		node := host.CreateElement("button")
		clicks := 0
		l := &domain.Listener{Name: "count", Fn: func(domain.Event) { clicks++ }}

		host.AddEventListener(node, "click", l)
		assert.Equal(t, 1, host.Dispatch(node, domain.Event{Type: "click"}))

		host.RemoveEventListener(node, "click", l)
		assert.Equal(t, 0, host.Dispatch(node, domain.Event{Type: "click"}))
		assert.Equal(t, 1, clicks)
	})
}
