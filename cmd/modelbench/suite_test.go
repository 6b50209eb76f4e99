package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestModelbench(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "modelbench CLI Suite")
}
