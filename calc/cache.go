package calc

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parsed roots keyed by the hash of source and options.
// Trees are immutable so a cached root can be shared by every caller.
var globalCache sync.Map

// state tracks the parse of one (source, options) pair.
type state struct {
	once sync.Once
	root Node
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseString parses src like [Parse], caching the result.
// Repeated calls with the same source and options share one tree root;
// failed parses are cached too.
func ParseString(ctx context.Context, src string, opts ...Option) (*Tree, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(o.optionsKey)
	sourceKey := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		tree, err := Parse(ctx, src, opts...)
		if err != nil {
			entry.err = err

			return
		}

		entry.root = tree.Root
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return &Tree{Root: entry.root, Source: src, opts: o}, nil
}

// ClearCache removes all cached trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
