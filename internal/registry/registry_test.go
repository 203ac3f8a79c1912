package registry

import (
	"testing"
	"time"

	"github.com/curator-dev/curator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(path, topic string, kind types.DocumentKind) *types.DocumentInfo {
	return &types.DocumentInfo{Path: path, Topic: topic, Kind: kind}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("go/patterns/errgroup.md", "go/patterns", types.KindPattern))

	got, exists := reg.Get("go/patterns/errgroup.md")
	require.True(t, exists)
	assert.Equal(t, "go/patterns", got.Topic)

	_, exists = reg.Get("missing.md")
	assert.False(t, exists)
}

func TestGetAllSorted(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("typescript/philosophy.md", "typescript", types.KindPhilosophy))
	reg.Register(doc("go/philosophy.md", "go", types.KindPhilosophy))
	reg.Register(doc("README.md", "", types.KindPattern))

	all := reg.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "README.md", all[0].Path)
	assert.Equal(t, "go/philosophy.md", all[1].Path)
	assert.Equal(t, "typescript/philosophy.md", all[2].Path)
}

func TestRegisterUpdatesExisting(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("go/philosophy.md", "go", types.KindPhilosophy))
	updated := doc("go/philosophy.md", "go", types.KindPhilosophy)
	updated.Title = "Go Philosophy"
	reg.Register(updated)

	assert.Equal(t, 1, reg.Count())
	got, _ := reg.Get("go/philosophy.md")
	assert.Equal(t, "Go Philosophy", got.Title)
}

func TestByTopicAndByKind(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("go/__index__.md", "go", types.KindIndex))
	reg.Register(doc("go/errgroup.md", "go", types.KindPattern))
	reg.Register(doc("go/philosophy.md", "go", types.KindPhilosophy))
	reg.Register(doc("typescript/__index__.md", "typescript", types.KindIndex))

	goDocs := reg.ByTopic("go")
	require.Len(t, goDocs, 3)
	assert.Equal(t, "go/__index__.md", goDocs[0].Path)

	indexes := reg.ByKind(types.KindIndex)
	require.Len(t, indexes, 2)
	assert.Equal(t, "go/__index__.md", indexes[0].Path)
	assert.Equal(t, "typescript/__index__.md", indexes[1].Path)

	assert.Empty(t, reg.ByTopic("rust"))
}

func TestTopics(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("typescript/a.md", "typescript", types.KindPattern))
	reg.Register(doc("go/a.md", "go", types.KindPattern))
	reg.Register(doc("go/b.md", "go", types.KindPattern))
	reg.Register(doc("README.md", "", types.KindPattern))

	assert.Equal(t, []string{"", "go", "typescript"}, reg.Topics())
}

func TestRemove(t *testing.T) {
	reg := NewDocumentRegistry()

	reg.Register(doc("go/a.md", "go", types.KindPattern))
	reg.Remove("go/a.md")

	assert.Equal(t, 0, reg.Count())

	// Removing a missing document is a no-op.
	reg.Remove("go/a.md")
	assert.Equal(t, 0, reg.Count())
}

func TestWatchReceivesEvents(t *testing.T) {
	reg := NewDocumentRegistry()
	events := reg.Watch()

	reg.Register(doc("go/a.md", "go", types.KindPattern))
	reg.Register(doc("go/a.md", "go", types.KindPattern))
	reg.Remove("go/a.md")

	expectEvent := func(expected EventType) {
		select {
		case event := <-events:
			assert.Equal(t, expected, event.Type)
			assert.Equal(t, "go/a.md", event.Document.Path)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for registry event")
		}
	}

	expectEvent(EventTypeAdded)
	expectEvent(EventTypeUpdated)
	expectEvent(EventTypeRemoved)
}

func TestUnWatchClosesChannel(t *testing.T) {
	reg := NewDocumentRegistry()
	events := reg.Watch()

	reg.UnWatch(events)

	_, open := <-events
	assert.False(t, open)

	// Events after unwatch must not panic.
	reg.Register(doc("go/a.md", "go", types.KindPattern))
}
