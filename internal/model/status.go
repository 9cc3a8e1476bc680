package model

import (
	"errors"
	"fmt"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

// allowedTransitions 审核状态流转表，approved 与 rejected 为终态
var allowedTransitions = map[string][]string{
	ContentStatusPending:  {ContentStatusApproved, ContentStatusRejected},
	ContentStatusApproved: {},
	ContentStatusRejected: {},
}

// IsValidStatus 判断状态值是否合法
func IsValidStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// ValidateStatusTransition 校验 from -> to 是否允许，相同状态视为合法
func ValidateStatusTransition(from, to string) error {
	if !IsValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, to)
	}
	if from == to {
		return nil
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}
