// SPDX-License-Identifier: BSD-3-Clause

// Package powermgr implements the power/activity manager: a rule-based
// (not purely time-based) aggregator that turns HID activity taps,
// USB-suspend transitions, and the connection coordinator's link-state
// events into a tri-state PowerState and a derived display_on signal for
// the UI.
//
// PowerState transitions are monotonic on the inactivity timer alone —
// activity always forces Active and resets the timer — but can jump
// freely to LowPower the instant the USB host suspends the bus,
// regardless of activity or link state. Idle never falls to LowPower on
// its own; it only demotes once the coordinator reports no slot
// connected, since the radio must keep servicing an active link even
// with no recent HID traffic.
package powermgr
