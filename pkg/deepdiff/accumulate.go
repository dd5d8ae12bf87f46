// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deepdiff

type options struct {
	hook             Hook
	orderIndependent bool
}

// Option configures a comparison.
type Option func(*options)

// WithHook installs h for the comparison.
func WithHook(h Hook) Option {
	return func(o *options) {
		o.hook = h
	}
}

// OrderIndependent compares arrays as multisets by sorting copies of both
// sides on Hash before pairing elements.
func OrderIndependent() Option {
	return func(o *options) {
		o.orderIndependent = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Observe compares lhs with rhs and calls observer once for every record, in
// traversal order. Nothing is buffered.
func Observe(lhs, rhs any, observer func(Change), opts ...Option) {
	o := newOptions(opts)
	w := &walker{
		hook:             o.hook,
		orderIndependent: o.orderIndependent,
		emit: func(c Change) {
			if !c.IsZero() {
				observer(c)
			}
		},
	}
	w.diff(node{lhs: lhs, rhs: rhs})
}

// Accumulate compares lhs with rhs. When sink is non-nil the records are
// appended to it and *sink is returned, even if nothing was appended. When
// sink is nil a fresh slice is returned, or nil if the values are equal.
//
// A non-nil hook takes precedence over one passed through opts.
func Accumulate(lhs, rhs any, hook Hook, sink *[]Change, opts ...Option) []Change {
	if hook != nil {
		opts = append(opts, WithHook(hook))
	}

	if sink != nil {
		if *sink == nil {
			*sink = []Change{}
		}
		Observe(lhs, rhs, func(c Change) {
			*sink = append(*sink, c)
		}, opts...)
		return *sink
	}

	var changes []Change
	Observe(lhs, rhs, func(c Change) {
		changes = append(changes, c)
	}, opts...)
	return changes
}

// Diff is Accumulate without a sink.
func Diff(lhs, rhs any, opts ...Option) []Change {
	return Accumulate(lhs, rhs, nil, nil, opts...)
}

// OrderIndependentDiff is Diff with OrderIndependent set.
func OrderIndependentDiff(lhs, rhs any, hook Hook) []Change {
	return Accumulate(lhs, rhs, hook, nil, OrderIndependent())
}
