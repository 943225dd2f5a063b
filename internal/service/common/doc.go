// Package common holds helpers shared by several services.
//
// It provides a lightweight client for the alarm unit status API with
// timeouts, detection of the current system actor (hostname/username)
// recorded with remote dismissals, the single-instance guard, logging setup
// from configuration and the loop supervisor that stops on hardware loss.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
