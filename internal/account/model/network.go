// Package model defines domain models for account balance snapshots.
package model

// Network names the chain a snapshot was taken from.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)
