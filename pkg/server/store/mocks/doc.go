// Package mocks provides testify mocks of the store interfaces.
package mocks
