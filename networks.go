package drips

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const networksFileName = "networks.yaml"

// ContractAddressesConfig holds the deployed protocol contract addresses
// for one network.
type ContractAddressesConfig struct {
	// Hub is the DripsHub contract address.
	Hub string `yaml:"hub" validate:"required,eth_addr"`
	// AddressDriver is the AddressDriver contract address.
	AddressDriver string `yaml:"address_driver" validate:"required,eth_addr"`
}

// NetworkConfig is the protocol metadata for a single supported chain.
// Instances are immutable once a Registry is built from them.
type NetworkConfig struct {
	// Name is the display identifier (e.g., "mainnet", "polygon")
	// Must match pattern: lowercase letters and underscores only
	Name string `yaml:"name" validate:"required,lowercase"`
	// ChainID is the EIP-155 chain identifier
	ChainID uint32 `yaml:"chain_id" validate:"required"`
	// Disabled excludes this network from the registry without deleting
	// its entry from the file
	Disabled bool `yaml:"disabled"`
	// CycleSecs is the network-wide drips cycle length in seconds
	CycleSecs uint32 `yaml:"cycle_secs" validate:"required"`
	// ContractAddresses are the deployed protocol contracts
	ContractAddresses ContractAddressesConfig `yaml:"contract_addresses"`
	// SubgraphURL is the indexing service endpoint for this network
	SubgraphURL string `yaml:"subgraph_url" validate:"omitempty,url"`
	// RPCURL is populated from environment variable <NAME>_RPC_URL when
	// loading from a file; empty in the built-in table (callers pass the
	// endpoint to the client constructor)
	RPCURL string
}

// networksConfig is the root structure of networks.yaml.
type networksConfig struct {
	Networks []NetworkConfig `yaml:"networks"`
}

var networkValidate = validator.New()

// Registry is an immutable chain-ID-indexed table of supported networks.
// Each client holds the registry it was constructed with; there is no
// ambient process-wide lookup.
type Registry struct {
	networks map[uint32]NetworkConfig
}

// DefaultRegistry returns the registry of networks the deployed protocol
// officially supports. Production networks settle weekly; test networks
// use a one-day cycle so receivable balances move fast enough to exercise.
func DefaultRegistry() Registry {
	registry, err := NewRegistry([]NetworkConfig{
		{
			Name:      "mainnet",
			ChainID:   1,
			CycleSecs: 604_800,
			ContractAddresses: ContractAddressesConfig{
				Hub:           "0x73043143e0a6418cc45d82d4505b096b802fd365",
				AddressDriver: "0xb555da1e7452980923a06f10bf4db9576d1fa900",
			},
			SubgraphURL: "https://api.thegraph.com/subgraphs/name/drips-network/on-mainnet",
		},
		{
			Name:      "goerli",
			ChainID:   5,
			CycleSecs: 86_400,
			ContractAddresses: ContractAddressesConfig{
				Hub:           "0x043ca3c888dbefdaeb566a40b6d3a72ffe1fd1f0",
				AddressDriver: "0x6f81b10dbab471d4fa2f10d9a6d2b7cd52bd109b",
			},
			SubgraphURL: "https://api.thegraph.com/subgraphs/name/drips-network/on-goerli",
		},
		{
			Name:      "sepolia",
			ChainID:   11_155_111,
			CycleSecs: 86_400,
			ContractAddresses: ContractAddressesConfig{
				Hub:           "0x3ca9e5e8fbc88bbbcbb0d2ba1fe0b6913de3805e",
				AddressDriver: "0x9aa96b24b33b6b49c1a8ca25c4f4def9c84ff981",
			},
			SubgraphURL: "https://api.thegraph.com/subgraphs/name/drips-network/on-sepolia",
		},
		{
			Name:      "polygon",
			ChainID:   137,
			CycleSecs: 604_800,
			ContractAddresses: ContractAddressesConfig{
				Hub:           "0xed569b2cbd1fba36cd93b2c5bb6d7a3c382a8c21",
				AddressDriver: "0x1455d9bd6b9ea86ddbbd3a15a1cd7ecb97ef4f68",
			},
			SubgraphURL: "https://api.thegraph.com/subgraphs/name/drips-network/on-polygon",
		},
		{
			Name:      "mumbai",
			ChainID:   80_001,
			CycleSecs: 86_400,
			ContractAddresses: ContractAddressesConfig{
				Hub:           "0x9f547a89cd3a6b54eef5d4a1417c6cd46f2dda7e",
				AddressDriver: "0x34a0a1ec62deff2a5afcbd37664af12ca25cc001",
			},
			SubgraphURL: "https://api.thegraph.com/subgraphs/name/drips-network/on-mumbai",
		},
	})
	if err != nil {
		// The built-in table is validated by tests; failing here means the
		// library itself is broken.
		panic(err)
	}
	return registry
}

// NewRegistry validates the given networks and builds a registry from the
// enabled ones. Chain IDs must be unique.
func NewRegistry(networks []NetworkConfig) (Registry, error) {
	enabled := make(map[uint32]NetworkConfig, len(networks))
	for i, n := range networks {
		if n.Disabled {
			continue
		}
		if err := networkValidate.Struct(n); err != nil {
			return Registry{}, fmt.Errorf("invalid network config at index %d (%s): %w", i, n.Name, err)
		}
		if _, dup := enabled[n.ChainID]; dup {
			return Registry{}, fmt.Errorf("duplicate chain ID %d in network configs", n.ChainID)
		}
		enabled[n.ChainID] = n
	}
	return Registry{networks: enabled}, nil
}

// ResolveNetwork resolves a chain ID against the built-in network table.
// Clients that need an overridden table resolve on their own Registry.
func ResolveNetwork(chainID uint32) (NetworkConfig, error) {
	return DefaultRegistry().Resolve(chainID)
}

// Resolve returns the metadata for the given chain ID.
// Returns ErrUnsupportedNetwork naming the chain ID when it is not in the
// table.
func (r Registry) Resolve(chainID uint32) (NetworkConfig, error) {
	network, ok := r.networks[chainID]
	if !ok {
		return NetworkConfig{}, newError(ErrCodeUnsupportedNetwork,
			"chain ID is not in the supported network table", "chainId", chainID)
	}
	return network, nil
}

// ChainIDs returns the supported chain IDs in ascending order.
func (r Registry) ChainIDs() []uint32 {
	ids := make([]uint32, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadNetworks builds a registry from <configDirPath>/networks.yaml,
// overriding the built-in table. A .env file in the same directory is
// loaded first if present. RPC endpoints are read from environment
// variables following the pattern <NAME_UPPERCASE>_RPC_URL; a missing RPC
// variable is not an error because read paths that only use the subgraph
// never dial the chain.
func LoadNetworks(configDirPath string) (Registry, error) {
	if err := godotenv.Load(filepath.Join(configDirPath, ".env")); err != nil && !os.IsNotExist(err) {
		return Registry{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	networksPath := filepath.Join(configDirPath, networksFileName)
	f, err := os.Open(networksPath)
	if err != nil {
		return Registry{}, err
	}
	defer f.Close()

	var cfg networksConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Registry{}, fmt.Errorf("failed to decode %s: %w", networksFileName, err)
	}

	for i, n := range cfg.Networks {
		if n.Disabled {
			continue
		}
		cfg.Networks[i].RPCURL = os.Getenv(fmt.Sprintf("%s_RPC_URL", strings.ToUpper(n.Name)))
	}

	return NewRegistry(cfg.Networks)
}
