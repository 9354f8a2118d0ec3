// internal/blockchain/dial.go
package blockchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dkt-api-server/config"
	"dkt-api-server/internal/wallet"

	fabconfig "github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
)

// Dial opens the asset trail chaincode as cfg.UserName and returns a Trail
// that owns the gateway connection. Callers Close it on shutdown.
func Dial(cfg config.FabricConfig) (*Trail, error) {
	if err := checkFabricConfig(cfg); err != nil {
		return nil, err
	}

	fsWallet, err := gateway.NewFileSystemWallet(cfg.WalletPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset trail wallet: %w", err)
	}
	if err := wallet.EnsureIdentity(fsWallet, trailIdentity(cfg)); err != nil {
		return nil, fmt.Errorf("failed to load asset trail identity %s: %w", cfg.UserName, err)
	}

	// Peers in the local network advertise container hostnames.
	os.Setenv("DISCOVERY_AS_LOCALHOST", "true")
	sdk, err := fabsdk.New(fabconfig.FromFile(filepath.Clean(cfg.ConnectionProfile)))
	if err != nil {
		return nil, fmt.Errorf("failed to load connection profile: %w", err)
	}
	gw, err := gateway.Connect(gateway.WithSDK(sdk), gateway.WithIdentity(fsWallet, cfg.UserName))
	if err != nil {
		sdk.Close()
		return nil, fmt.Errorf("failed to connect to asset trail gateway: %w", err)
	}
	network, err := gw.GetNetwork(cfg.ChannelName)
	if err != nil {
		gw.Close()
		sdk.Close()
		return nil, fmt.Errorf("failed to join channel %s: %w", cfg.ChannelName, err)
	}

	return &Trail{
		Contract: network.GetContract(cfg.ChaincodeName),
		closeFn: func() {
			gw.Close()
			sdk.Close()
		},
	}, nil
}

func checkFabricConfig(cfg config.FabricConfig) error {
	var missing []error
	for name, v := range map[string]string{
		"channelName":       cfg.ChannelName,
		"chaincodeName":     cfg.ChaincodeName,
		"orgName":           cfg.OrgName,
		"userName":          cfg.UserName,
		"connectionProfile": cfg.ConnectionProfile,
		"walletPath":        cfg.WalletPath,
	} {
		if v == "" {
			missing = append(missing, fmt.Errorf("fabric.%s is required", name))
		}
	}
	return errors.Join(missing...)
}

func trailIdentity(cfg config.FabricConfig) wallet.Identity {
	return wallet.Identity{
		Label:    cfg.UserName,
		MSPID:    cfg.OrgName + "MSP",
		CertPath: cfg.UserCertPath,
		KeyDir:   cfg.UserKeyDir,
	}
}
