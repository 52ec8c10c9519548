package coulomb_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCoulombLifecycle(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Coulomb Engine Lifecycle Suite")
}
