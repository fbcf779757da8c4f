// Package testsupport provides scripted git executors and discovery stubs shared by package tests.
package testsupport
