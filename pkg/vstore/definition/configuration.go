package definition

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jabolina/go-vstore/pkg/vstore/types"
)

// DefaultConfiguration creates the configuration used when the client
// does not tune anything, with the default retry and await bounds, the
// default logger and a private metrics registry.
func DefaultConfiguration() *types.Configuration {
	return &types.Configuration{
		PutRetries:        types.DefaultPutRetries,
		ContactPeersAwait: types.DefaultContactPeersAwait,
		Logger:            NewDefaultLogger(),
		Registry:          prometheus.NewRegistry(),
	}
}
