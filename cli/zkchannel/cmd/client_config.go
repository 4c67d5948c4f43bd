package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkchannel-org/zkchannel/client"
	"github.com/zkchannel-org/zkchannel/types"
)

const (
	defaultNodeUrl = "localhost:8899"

	flagNameNodeUrl        = "node-url"
	flagNameChannelProgram = "channel-program"
	flagNameSystemProgram  = "system-program"
	flagNameRequester      = "requester"
	flagNameExecutionID    = "execution-id"
	flagNameStoreFile      = "store"
	flagNamePollInterval   = "poll-interval"
	flagNameTrackTimeout   = "track-timeout"
)

// addClientFlags registers the flags every command talking to a node
// needs. The channel program identity is deliberately a required flag,
// there is no sensible default for it.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagNameNodeUrl, "u", defaultNodeUrl, "node API url to connect to")
	cmd.Flags().String(flagNameChannelProgram, "", "base58 address of the channel program")
	cmd.Flags().String(flagNameSystemProgram, types.Address{}.String(), "base58 address of the system program")
	cmd.Flags().Duration(flagNamePollInterval, client.DefaultPollInterval, "interval between completion polls")
	cmd.Flags().Duration(flagNameTrackTimeout, client.DefaultTrackTimeout, "total time to wait for completion")
	_ = cmd.MarkFlagRequired(flagNameChannelProgram)
}

func addStoreFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagNameStoreFile, "", fmt.Sprintf("submission store file (default is $ZKC_HOME/%s)", defaultStoreFile))
}

func addressFlag(cmd *cobra.Command, flagName string) (types.Address, error) {
	s, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return types.Address{}, err
	}
	if s == "" {
		return types.Address{}, fmt.Errorf("flag %q is not set", flagName)
	}
	addr, err := types.AddressFromBase58(s)
	if err != nil {
		return types.Address{}, fmt.Errorf("invalid %s address: %w", flagName, err)
	}
	return addr, nil
}

// openStore opens the submission store named by the --store flag, or the
// default one under $ZKC_HOME. The caller owns the returned store.
func openStore(cmd *cobra.Command, config *baseConfiguration) (*client.Store, error) {
	path, err := cmd.Flags().GetString(flagNameStoreFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = config.defaultStorePath()
	}
	return client.NewStore(path)
}

// buildClient wires a client from the command's flags, including the
// submission store.
func buildClient(cmd *cobra.Command, config *baseConfiguration) (*client.Client, error) {
	nodeUrl, err := cmd.Flags().GetString(flagNameNodeUrl)
	if err != nil {
		return nil, err
	}
	transport, err := client.NewHTTPTransport(nodeUrl)
	if err != nil {
		return nil, err
	}
	channelProgram, err := addressFlag(cmd, flagNameChannelProgram)
	if err != nil {
		return nil, err
	}
	systemProgram, err := addressFlag(cmd, flagNameSystemProgram)
	if err != nil {
		return nil, err
	}
	var pollInterval, trackTimeout time.Duration
	if pollInterval, err = cmd.Flags().GetDuration(flagNamePollInterval); err != nil {
		return nil, err
	}
	if trackTimeout, err = cmd.Flags().GetDuration(flagNameTrackTimeout); err != nil {
		return nil, err
	}
	store, err := openStore(cmd, config)
	if err != nil {
		return nil, err
	}
	c, err := client.New(client.Config{
		Transport:        transport,
		ChannelProgramID: channelProgram,
		SystemProgramID:  systemProgram,
		PollInterval:     pollInterval,
		TrackTimeout:     trackTimeout,
		Store:            store,
		Logger:           config.log,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}
