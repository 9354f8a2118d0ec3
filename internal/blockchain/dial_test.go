package blockchain

import (
	"path/filepath"
	"testing"

	"dkt-api-server/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial_RejectsIncompleteConfig(t *testing.T) {
	_, err := Dial(config.FabricConfig{Enabled: true, ChannelName: "dkt", OrgName: "Org1"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "fabric.chaincodeName is required")
	assert.ErrorContains(t, err, "fabric.walletPath is required")
	assert.NotContains(t, err.Error(), "fabric.channelName")
}

func TestDial_MissingEnrollmentMaterial(t *testing.T) {
	dir := t.TempDir()
	_, err := Dial(config.FabricConfig{
		Enabled:           true,
		ChannelName:       "dkt",
		ChaincodeName:     "assettrail",
		OrgName:           "Org1",
		UserName:          "appUser",
		ConnectionProfile: filepath.Join(dir, "connection.yaml"),
		UserCertPath:      filepath.Join(dir, "missing-cert.pem"),
		UserKeyDir:        filepath.Join(dir, "keystore"),
		WalletPath:        filepath.Join(dir, "wallet"),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load asset trail identity appUser")
}

func TestTrailIdentity_UsesOrgMSP(t *testing.T) {
	id := trailIdentity(config.FabricConfig{OrgName: "Org1", UserName: "appUser", UserCertPath: "cert.pem", UserKeyDir: "keys"})
	assert.Equal(t, "Org1MSP", id.MSPID)
	assert.Equal(t, "appUser", id.Label)
}

func TestTrail_CloseWithoutConnection(t *testing.T) {
	closed := 0
	(&Trail{}).Close()
	(&Trail{closeFn: func() { closed++ }}).Close()
	assert.Equal(t, 1, closed)
}
