// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "github.com/sirupsen/logrus"

// CheckErrorState checks the pending error flag of ctx. The first error
// found is logged under label and returned as an *Error, any further
// queued codes are left for the next check. A nil return means the
// context had no pending error.
func (u *Utility) CheckErrorState(ctx Context, label string) error {
	if code := ctx.GetError(); code != NoError {
		u.logger().WithFields(logrus.Fields{
			"label": label,
			"code":  uint32(code),
		}).Errorf("%s: glError %d", label, uint32(code))
		return &Error{Label: label, Code: code}
	}
	return nil
}
