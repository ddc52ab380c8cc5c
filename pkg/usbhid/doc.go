// SPDX-License-Identifier: BSD-3-Clause

// Package usbhid drives the USB side of the bridge: a composite gadget
// exposing one HID function per canonical report kind (keyboard, mouse,
// consumer control), built over Linux configfs, plus suspend/resume
// signalling the power manager reacts to.
//
// CompositeDevice is the collaborator boundary; Gadget is the real
// configfs-backed implementation and MockCompositeDevice stands in for
// it in tests and on hosts without gadget support.
package usbhid
