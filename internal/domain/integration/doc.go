// Package integration defines the domain model for pulling orders from
// external e-commerce platforms. It contains the platform client port
// interface, the raw order value objects returned by platform APIs, and
// the pull request/response contracts. Concrete platform adapters live
// in the infrastructure layer.
package integration
