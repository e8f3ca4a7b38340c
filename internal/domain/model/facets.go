// Copyright The CodeInsight Authors.
// SPDX-License-Identifier: MIT

package model

// FacetValue is one value/count pair of a facet bucket. Count holds the
// issue count in "count" facet mode and the effort sum in "effort" mode.
type FacetValue struct {
	Val   string `json:"val"`
	Count int64  `json:"count"`
}

// Bucket is an ordered value-to-count mapping. Insertion order is the
// backend return order; completion appends zero-count entries at the end
// and never duplicates keys.
type Bucket struct {
	values []FacetValue
	index  map[string]int
}

// NewBucket returns an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{index: make(map[string]int)}
}

// Add appends the value, or overwrites its count if the key is present.
func (b *Bucket) Add(key string, count int64) {
	if i, ok := b.index[key]; ok {
		b.values[i].Count = count
		return
	}
	b.index[key] = len(b.values)
	b.values = append(b.values, FacetValue{Val: key, Count: count})
}

// AddMissing appends the key with a zero count unless already present.
func (b *Bucket) AddMissing(key string) {
	if _, ok := b.index[key]; !ok {
		b.Add(key, 0)
	}
}

// Contains reports whether the key is present.
func (b *Bucket) Contains(key string) bool {
	_, ok := b.index[key]
	return ok
}

// Keys returns the bucket keys in order.
func (b *Bucket) Keys() []string {
	keys := make([]string, len(b.values))
	for i, v := range b.values {
		keys[i] = v.Val
	}
	return keys
}

// Values returns the ordered value/count pairs.
func (b *Bucket) Values() []FacetValue {
	return b.values
}

// Len returns the number of entries.
func (b *Bucket) Len() int {
	return len(b.values)
}

// Facets maps facet names to buckets, preserving the order buckets were
// added in. The response order is later re-derived from the request.
type Facets struct {
	names   []string
	buckets map[string]*Bucket
}

// NewFacets returns an empty facet collection.
func NewFacets() *Facets {
	return &Facets{buckets: make(map[string]*Bucket)}
}

// Bucket returns the named bucket, or nil when the facet is absent.
func (f *Facets) Bucket(name string) *Bucket {
	return f.buckets[name]
}

// Ensure returns the named bucket, creating an empty one if absent.
func (f *Facets) Ensure(name string) *Bucket {
	if b, ok := f.buckets[name]; ok {
		return b
	}
	b := NewBucket()
	f.buckets[name] = b
	f.names = append(f.names, name)
	return b
}

// BucketKeys returns the keys of the named bucket, or nil when absent.
func (f *Facets) BucketKeys(name string) []string {
	if b, ok := f.buckets[name]; ok {
		return b.Keys()
	}
	return nil
}

// Names returns the facet names in insertion order.
func (f *Facets) Names() []string {
	return f.names
}
