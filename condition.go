// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"strings"
)

// Outcome is the result of evaluating a Condition.
type Outcome struct {
	Match   bool
	Message string
}

func match(format string, args ...any) Outcome {
	return Outcome{Match: true, Message: fmt.Sprintf(format, args...)}
}

func noMatch(format string, args ...any) Outcome {
	return Outcome{Match: false, Message: fmt.Sprintf(format, args...)}
}

// ConditionContext is what conditions are evaluated against.
type ConditionContext struct {
	Env      *Environment
	Registry *Registry
}

// Condition decides whether a piece of configuration applies.
type Condition func(ctx *ConditionContext) Outcome

// AllOf matches when every condition matches. It stops at the first
// condition that does not.
func AllOf(conditions ...Condition) Condition {
	return func(ctx *ConditionContext) Outcome {
		var msgs []string
		for _, c := range conditions {
			o := c(ctx)
			if !o.Match {
				return o
			}
			msgs = append(msgs, o.Message)
		}
		return match("%s", strings.Join(msgs, "; "))
	}
}

// AnyOf matches when at least one condition matches. Every condition is
// evaluated so the message covers all of them.
func AnyOf(conditions ...Condition) Condition {
	return func(ctx *ConditionContext) Outcome {
		var matched, missed []string
		for _, c := range conditions {
			o := c(ctx)
			if o.Match {
				matched = append(matched, o.Message)
			} else {
				missed = append(missed, o.Message)
			}
		}
		if len(matched) > 0 {
			return match("%s", strings.Join(matched, "; "))
		}
		return noMatch("%s", strings.Join(missed, "; "))
	}
}

// Not inverts a condition.
func Not(c Condition) Condition {
	return func(ctx *ConditionContext) Outcome {
		o := c(ctx)
		return Outcome{Match: !o.Match, Message: "not (" + o.Message + ")"}
	}
}

// OnProperty matches when key is configured with any value other than "false".
func OnProperty(key string) Condition {
	return OnPropertyValue(key, "", false)
}

// OnPropertyValue matches when key is configured with value want
// (case-insensitive). An empty want accepts anything except "false".
// A missing key matches only when matchIfMissing is set.
func OnPropertyValue(key, want string, matchIfMissing bool) Condition {
	return func(ctx *ConditionContext) Outcome {
		if !ctx.Env.Contains(key) {
			if matchIfMissing {
				return match("property %s not set, matching by default", key)
			}
			return noMatch("did not find property %s", key)
		}
		got := strings.TrimSpace(ctx.Env.String(key))
		if want == "" {
			if strings.EqualFold(got, "false") {
				return noMatch("found property %s with value false", key)
			}
			return match("found property %s", key)
		}
		if strings.EqualFold(got, want) {
			return match("found property %s with value %s", key, want)
		}
		return noMatch("found property %s with different value %s", key, got)
	}
}

// OnAnyProperty matches when at least one of keys is configured.
func OnAnyProperty(keys ...string) Condition {
	return func(ctx *ConditionContext) Outcome {
		var found []string
		for _, k := range keys {
			if ctx.Env.Contains(k) {
				found = append(found, k)
			}
		}
		if len(found) == 0 {
			return noMatch("did not find configured properties %s", strings.Join(keys, ", "))
		}
		if len(found) == 1 {
			return match("found configured property %s", found[0])
		}
		return match("found configured properties %s", strings.Join(found, ", "))
	}
}

// OnSingleCandidate matches when exactly one component of kind is
// registered, or exactly one of several is marked primary.
func OnSingleCandidate(kind Kind) Condition {
	return func(ctx *ConditionContext) Outcome {
		c, ok := ctx.Registry.SingleCandidate(kind)
		if !ok {
			n := len(ctx.Registry.OfKind(kind))
			if n == 0 {
				return noMatch("did not find any %s", kind)
			}
			return noMatch("found %d %s components and none is primary", n, kind)
		}
		return match("found single %s %s", kind, c.Name)
	}
}

// OnMissingComponent matches when no component of kind is registered.
func OnMissingComponent(kind Kind) Condition {
	return func(ctx *ConditionContext) Outcome {
		found := ctx.Registry.OfKind(kind)
		if len(found) == 0 {
			return match("did not find any %s", kind)
		}
		names := make([]string, len(found))
		for i, c := range found {
			names[i] = c.Name
		}
		return noMatch("found %s %s", kind, strings.Join(names, ", "))
	}
}

// SharedCredentialsCondition matches when any initialization property
// under prefix is configured.
func SharedCredentialsCondition(prefix string) Condition {
	return OnAnyProperty(InitializationKeys(prefix)...)
}

// DifferentCredentialsCondition matches when a schema-specific or a
// data-specific username is configured under prefix.
func DifferentCredentialsCondition(prefix string) Condition {
	return AnyOf(
		OnProperty(qualify(prefix, KeySchemaUsername)),
		OnProperty(qualify(prefix, KeyDataUsername)),
	)
}
