/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no resolver could locate the specifier.
var ErrNotFound = errors.New("cannot resolve specifier")

// ResolvedFile preserves both the original specifier and the resolved filesystem path.
type ResolvedFile struct {
	// Specifier is the original specifier (e.g., "npm:@rhds/tokens/css/global.css").
	Specifier string

	// Path is the absolute resolved filesystem path.
	Path string

	// Kind indicates which resolver located the file.
	Kind Kind
}

// Resolver resolves specifiers to filesystem paths.
type Resolver interface {
	// Resolve resolves a specifier to a ResolvedFile.
	// Returns an error wrapping ErrNotFound if no file matches.
	Resolve(spec string) (*ResolvedFile, error)

	// CanResolve returns true if this resolver can handle the given specifier.
	CanResolve(spec string) bool
}

// ChainResolver tries multiple resolvers in order.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver creates a resolver that tries each resolver in order.
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

// Resolve tries each resolver that can handle spec, in order, until one succeeds.
func (c *ChainResolver) Resolve(spec string) (*ResolvedFile, error) {
	var errs []error
	for _, r := range c.resolvers {
		if !r.CanResolve(spec) {
			continue
		}
		rf, err := r.Resolve(spec)
		if err == nil {
			return rf, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no resolver for %q", ErrNotFound, spec)
	}
	return nil, fmt.Errorf("%w: %q: %w", ErrNotFound, spec, errors.Join(errs...))
}

// CanResolve returns true if any resolver can handle the specifier.
func (c *ChainResolver) CanResolve(spec string) bool {
	for _, r := range c.resolvers {
		if r.CanResolve(spec) {
			return true
		}
	}
	return false
}
