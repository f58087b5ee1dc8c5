// Package hal defines the contract of a vendor camera hardware module.
//
// A hardware module is a fixed function table plus identity fields. Module
// is the Go rendering of that table; VendorTagProvider is implemented only by
// modules that publish vendor tag operations. Failures are reported as Status
// values, the errno-style codes hardware modules return.
//
// This package only describes the contract. The adapter in package module
// consumes it and package sim provides a simulated implementation.
package hal
