package personclient

import (
	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("personclient",
	fx.Provide(func(c *Client) orgdomain.PersonClient { return c }),
	fx.Provide(New),
)
