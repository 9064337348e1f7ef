package core

import (
	"testing"

	"warburtonsos/testutil"
)

func TestCoreStaysTransportAgnostic(t *testing.T) {
	forbidden := testutil.PrefixForbidden("net/http", "warburtonsos/internal/adapters", "warburtonsos/internal/cli")
	testutil.AssertNoDirectImports(t, ".", forbidden, "dispatch must not depend on transports")
}
