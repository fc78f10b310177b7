package elsewhere

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckNetworkIdFree(t *testing.T) {
	assert := assert.New(t)

	networks := []Network{
		{Id: 1, Kind: NetworkKindSocial, Name: "Last.fm", Url: "http://www.last.fm/user/%s"},
		{Id: 2, Kind: NetworkKindSocial, Name: "Twitter", Url: "https://twitter.com/%s"},
	}

	err := CheckNetworkIdFree(networks, Network{Name: "Last fm"})
	assert.ErrorIs(err, ErrNetworkIdTaken)
	err = CheckNetworkIdFree(networks, Network{Id: 2, Name: "LAST-FM"})
	assert.ErrorIs(err, ErrNetworkIdTaken)

	assert.NoError(CheckNetworkIdFree(networks, Network{Id: 1, Name: "Last fm"}))
	assert.NoError(CheckNetworkIdFree(networks, Network{Name: "Mastodon"}))
	assert.NoError(CheckNetworkIdFree(nil, Network{Name: "Last.fm"}))
}
