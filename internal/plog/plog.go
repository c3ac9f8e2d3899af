// Copyright 2020-2026 the Pinniped contributors and the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

// Package plog implements a thin layer over klog to help enforce cryostat's
// logging convention: logs are always structured as a constant message with
// key and value pairs of related metadata.
//
// The logging levels in order of increasing verbosity are error, warning,
// info, debug, trace and all. error and warning are always emitted (there is
// no way for the end user to disable them) and should be used sparingly.
// info is "nice to know" information that should not degrade performance at
// high volume. debug and trace are for developers and support cases and
// must never leak secrets into the log stream. all is reserved for the most
// verbose, security-sensitive information and is unfit for production use.
package plog

import "k8s.io/klog/v2"

const (
	klogLevelWarning = iota * 2
	klogLevelInfo
	klogLevelDebug
	klogLevelTrace
	klogLevelAll
)

const errorKey = "error"

// Error logs an unexpected system error. Error and Warning logs are always
// emitted regardless of the configured verbosity.
func Error(msg string, err error, keysAndValues ...interface{}) {
	klog.ErrorS(err, msg, keysAndValues...)
}

// Warning logs a condition that is not itself an error but is noteworthy.
func Warning(msg string, keysAndValues ...interface{}) {
	// klog's structured logging has no concept of a warning (no WarningS function),
	// so info at the warning verbosity level is used as a proxy, with an explicit
	// key since klog's own I prefix otherwise makes this indistinguishable from info.
	keysAndValues = append([]interface{}{"warning", "true"}, keysAndValues...)
	klog.V(klogLevelWarning).InfoS(msg, keysAndValues...)
}

// WarningErr issues a Warning with an error object as part of the message.
func WarningErr(msg string, err error, keysAndValues ...interface{}) {
	Warning(msg, append([]interface{}{errorKey, err}, keysAndValues...)...)
}

// Info logs "nice to know" information safe to leave enabled in production.
func Info(msg string, keysAndValues ...interface{}) {
	klog.V(klogLevelInfo).InfoS(msg, keysAndValues...)
}

// InfoErr logs an expected error, e.g. a caller validation failure, at Info.
func InfoErr(msg string, err error, keysAndValues ...interface{}) {
	Info(msg, append([]interface{}{errorKey, err}, keysAndValues...)...)
}

// Debug logs information targeted at developers and support cases.
func Debug(msg string, keysAndValues ...interface{}) {
	klog.V(klogLevelDebug).InfoS(msg, keysAndValues...)
}

// DebugErr issues a Debug message with an error object as part of the message.
func DebugErr(msg string, err error, keysAndValues ...interface{}) {
	Debug(msg, append([]interface{}{errorKey, err}, keysAndValues...)...)
}

// Trace logs timing and flow information.
func Trace(msg string, keysAndValues ...interface{}) {
	klog.V(klogLevelTrace).InfoS(msg, keysAndValues...)
}

// TraceErr issues a Trace message with an error object as part of the message.
func TraceErr(msg string, err error, keysAndValues ...interface{}) {
	Trace(msg, append([]interface{}{errorKey, err}, keysAndValues...)...)
}

// All logs the most verbose, security-sensitive information. Unfit for
// production use.
func All(msg string, keysAndValues ...interface{}) {
	klog.V(klogLevelAll).InfoS(msg, keysAndValues...)
}
