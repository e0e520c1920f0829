package orgclient

import (
	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("orgclient",
	fx.Provide(func(c *Client) persondomain.OrganizationClient { return c }),
	fx.Provide(New),
)
