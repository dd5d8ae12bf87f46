// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"strings"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// OneOf returns a validator accepting only the listed values.
func OneOf(valid ...string) FlagValidatorType {
	return func(value any) error {
		for _, v := range valid {
			if v == value {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v", valid)
	}
}

// SortValidator checks a --sort spec. Each field is kind, path or depth with
// optional - (descending) and ! (case-sensitive) prefixes.
func SortValidator(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	for _, field := range strings.Split(s, ",") {
		name := strings.TrimLeft(strings.TrimSpace(field), "-!")
		switch name {
		case "kind", "path", "depth":
		default:
			return fmt.Errorf("unknown sort field %q, must be one of [kind path depth]", name)
		}
	}
	return nil
}
