package cli

import (
	"fmt"
	"net"
	"time"

	"github.com/aretw0/reactless"
)

// Output formats of the render command.
const (
	FormatTree    = "tree"
	FormatMermaid = "mermaid"
	FormatFibers  = "fibers"
	FormatJSON    = "json"
)

// GlobalOptions are shared by every command.
type GlobalOptions struct {
	Debug bool
	// JSON switches log records to JSON.
	JSON  bool
	Color bool
}

// RenderOptions contains all the configuration for the render and diff commands.
type RenderOptions struct {
	GlobalOptions
	Path string
	// Budget is the number of units of work granted per slice.
	Budget int
	Watch  bool
	Format string
	// Effects highlights the last commit's effects on mermaid output.
	Effects bool
	// Debounce delays a re-render after a change in watch mode.
	Debounce time.Duration
}

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	GlobalOptions
	Port      string
	RedisAddr string
	RedisDB   int
	// SnapshotTTL expires stored trees; zero keeps them forever.
	SnapshotTTL time.Duration
	Frame       time.Duration
	FrameBudget time.Duration
	// MaskAttrs are patterns of attribute names whose values are masked in stored trees.
	MaskAttrs []string
	// EncryptionKey is a hex-encoded AES-256 key for stored trees.
	EncryptionKey string
	// Listener overrides Port when set.
	Listener net.Listener
}

func (o *RenderOptions) validate() error {
	if o.Budget <= 0 {
		return fmt.Errorf("--budget must be positive, got %d", o.Budget)
	}
	switch o.Format {
	case "":
		o.Format = FormatTree
	case FormatTree, FormatMermaid, FormatFibers, FormatJSON:
	default:
		return fmt.Errorf("unknown --format %q (want tree, mermaid, fibers or json)", o.Format)
	}
	if o.Debounce <= 0 {
		o.Debounce = 100 * time.Millisecond
	}
	return nil
}

func (o *ServeOptions) validate() error {
	if o.Frame <= 0 {
		return fmt.Errorf("--frame must be positive, got %s", o.Frame)
	}
	if o.FrameBudget <= 0 || o.FrameBudget > o.Frame {
		o.FrameBudget = o.Frame / 2
	}
	if o.FrameBudget <= reactless.DefaultSafetyMargin {
		return fmt.Errorf("--frame-budget %s leaves no time for work past the %s safety margin", o.FrameBudget, reactless.DefaultSafetyMargin)
	}
	if o.Listener == nil && o.Port == "" {
		return fmt.Errorf("--port is required")
	}
	return nil
}
