// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package filter holds the two independent search filters: price and date.

Each filter is either inactive or active in exact or range mode. Every set
or clear emits exactly one notification to that filter's observers, in
registration order, carrying the new value or nil when cleared.
*/
package filter

import (
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/dvfmap/internal/platform/validate"
)

// Mode distinguishes exact values from ranges.
type Mode int

const (
	ModeExact Mode = iota
	ModeRange
)

var (
	ErrInvertedRange = errors.New("filter: minimum exceeds maximum")
	ErrNegativePrice = errors.New("filter: price must not be negative")
	ErrInvalidDate   = errors.New("filter: date must be formatted YYYY-MM-DD")
)

// PriceFilter constrains the sale price in euros. Exact mode has Min == Max.
type PriceFilter struct {
	Active bool
	Mode   Mode
	Min    float64
	Max    float64
}

// ExactPrice builds an exact-price filter.
func ExactPrice(value float64) (PriceFilter, error) {
	if value < 0 {
		return PriceFilter{}, ErrNegativePrice
	}
	return PriceFilter{Active: true, Mode: ModeExact, Min: value, Max: value}, nil
}

// PriceRange builds an inclusive price range.
func PriceRange(low, high float64) (PriceFilter, error) {
	if low < 0 || high < 0 {
		return PriceFilter{}, ErrNegativePrice
	}
	if low > high {
		return PriceFilter{}, ErrInvertedRange
	}
	return PriceFilter{Active: true, Mode: ModeRange, Min: low, Max: high}, nil
}

// Bounds returns the filter as an inclusive pair.
func (p PriceFilter) Bounds() [2]float64 {
	if p.Mode == ModeExact {
		return [2]float64{p.Min, p.Min}
	}
	return [2]float64{p.Min, p.Max}
}

// DateFilter constrains the mutation date. End defaults to Start.
type DateFilter struct {
	Active bool
	Mode   Mode
	Start  string
	End    string
}

// ExactDate builds a single-day filter.
func ExactDate(day string) (DateFilter, error) {
	if !isDate(day) {
		return DateFilter{}, ErrInvalidDate
	}
	return DateFilter{Active: true, Mode: ModeExact, Start: day, End: day}, nil
}

// DateRange builds an inclusive range. An empty end means the start day only.
func DateRange(start, end string) (DateFilter, error) {
	if end == "" {
		end = start
	}
	if !isDate(start) || !isDate(end) {
		return DateFilter{}, ErrInvalidDate
	}
	if start > end {
		return DateFilter{}, ErrInvertedRange
	}
	return DateFilter{Active: true, Mode: ModeRange, Start: start, End: end}, nil
}

// Bounds returns the filter as an inclusive pair; exact mode collapses to [day, day].
func (d DateFilter) Bounds() [2]string {
	if d.Mode == ModeExact || d.End == "" {
		return [2]string{d.Start, d.Start}
	}
	return [2]string{d.Start, d.End}
}

func isDate(value string) bool {
	_, err := time.Parse(validate.DateLayout, value)
	return err == nil
}

// # State

// State owns both filters. It is safe for concurrent use.
type State struct {
	mu    sync.Mutex
	price PriceFilter
	date  DateFilter

	nextID         int
	priceObservers []observer[*PriceFilter]
	dateObservers  []observer[*DateFilter]
}

type observer[T any] struct {
	id int
	fn func(T)
}

// New returns a State with both filters inactive.
func New() *State {
	return &State{}
}

// Price returns the price filter; Active is false when none is set.
func (s *State) Price() PriceFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price
}

// Date returns the date filter; Active is false when none is set.
func (s *State) Date() DateFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// HasActiveFilters reports whether at least one filter constrains the search.
func (s *State) HasActiveFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price.Active || s.date.Active
}

// SetPrice activates the price filter. Build values with [ExactPrice] or [PriceRange].
func (s *State) SetPrice(price PriceFilter) error {
	if price.Mode == ModeExact {
		price.Max = price.Min
	}
	if price.Min > price.Max {
		return ErrInvertedRange
	}
	price.Active = true

	s.mu.Lock()
	s.price = price
	observers := append([]observer[*PriceFilter](nil), s.priceObservers...)
	s.mu.Unlock()

	for _, o := range observers {
		value := price
		o.fn(&value)
	}
	return nil
}

// ClearPrice deactivates the price filter. The date filter is untouched.
func (s *State) ClearPrice() {
	s.mu.Lock()
	s.price = PriceFilter{}
	observers := append([]observer[*PriceFilter](nil), s.priceObservers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(nil)
	}
}

// SetDate activates the date filter. Build values with [ExactDate] or [DateRange].
func (s *State) SetDate(date DateFilter) error {
	if date.End == "" || date.Mode == ModeExact {
		date.End = date.Start
	}
	if !isDate(date.Start) || !isDate(date.End) {
		return ErrInvalidDate
	}
	if date.Start > date.End {
		return ErrInvertedRange
	}
	date.Active = true

	s.mu.Lock()
	s.date = date
	observers := append([]observer[*DateFilter](nil), s.dateObservers...)
	s.mu.Unlock()

	for _, o := range observers {
		value := date
		o.fn(&value)
	}
	return nil
}

// ClearDate deactivates the date filter. The price filter is untouched.
func (s *State) ClearDate() {
	s.mu.Lock()
	s.date = DateFilter{}
	observers := append([]observer[*DateFilter](nil), s.dateObservers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(nil)
	}
}

// Reset clears both filters, notifying each filter's observers once.
func (s *State) Reset() {
	s.ClearPrice()
	s.ClearDate()
}

// OnPriceChange registers fn and returns a function that unregisters it.
// fn runs on the caller's goroutine after the new value is stored.
func (s *State) OnPriceChange(fn func(*PriceFilter)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.priceObservers = append(s.priceObservers, observer[*PriceFilter]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.priceObservers = without(s.priceObservers, id)
	}
}

// OnDateChange registers fn and returns a function that unregisters it.
func (s *State) OnDateChange(fn func(*DateFilter)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.dateObservers = append(s.dateObservers, observer[*DateFilter]{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.dateObservers = without(s.dateObservers, id)
	}
}

func without[T any](observers []observer[T], id int) []observer[T] {
	kept := observers[:0:0]
	for _, o := range observers {
		if o.id != id {
			kept = append(kept, o)
		}
	}
	return kept
}
