// Package engine implements the query classifier, dataset matcher, and
// response composer behind the chat widget. Every entry point is a pure
// computation over the catalog injected at construction; the engine performs
// no I/O and holds no mutable state.
package engine

import (
	"errors"

	"dataset-agent/internal/catalog"
	"dataset-agent/internal/domain"
)

// Templates are the canned strings the composer assembles replies from.
type Templates struct {
	Greeting     string
	Thanks       string
	Identity     string
	NoData       string
	Related      string
	CallToAction string
	// ListHeader is a fmt string taking the category count.
	ListHeader  string
	PortalTitle string
	PortalURL   string
}

func defaultTemplates() Templates {
	return Templates{
		Greeting:     "Halo! Saya asisten data BPS Kota Medan. Ada yang bisa saya bantu seputar data statistik?",
		Thanks:       "Sama-sama! Senang bisa membantu. Jangan ragu bertanya kembali seputar data Kota Medan.",
		Identity:     "Saya asisten virtual BPS Kota Medan. Saya membantu Anda menemukan data statistik yang dipublikasikan untuk Kota Medan.",
		NoData:       "Maaf, kami tidak menemukan data yang relevan. Coba gunakan kata kunci yang lebih spesifik.",
		Related:      "Kami juga menemukan beberapa data terkait di bawah ini.",
		CallToAction: "Silakan buka tautan sumber untuk melihat data selengkapnya.",
		ListHeader:   "Kami memiliki %d kategori data:",
		PortalTitle:  catalog.DefaultPortalTitle,
		PortalURL:    catalog.DefaultPortalURL,
	}
}

// Engine answers questions about the catalog it was built with.
type Engine struct {
	records []domain.DatasetRecord
	tpl     Templates
}

type Option func(*Engine)

// WithPortalURL overrides the portal cited when nothing matches.
func WithPortalURL(url string) Option {
	return func(e *Engine) {
		e.tpl.PortalURL = url
	}
}

// WithPortalTitle overrides the label of the portal citation.
func WithPortalTitle(title string) Option {
	return func(e *Engine) {
		e.tpl.PortalTitle = title
	}
}

// WithGreetingReply overrides the canned greeting reply.
func WithGreetingReply(s string) Option {
	return func(e *Engine) {
		e.tpl.Greeting = s
	}
}

// WithIdentityReply overrides the canned identity reply.
func WithIdentityReply(s string) Option {
	return func(e *Engine) {
		e.tpl.Identity = s
	}
}

// New builds an Engine over the given catalog.
func New(cat catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat.Len() == 0 {
		return nil, errors.New("engine: catalog must not be empty")
	}
	e := &Engine{
		records: cat.Records(),
		tpl:     defaultTemplates(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}
