package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// UserMetadataEntry is one key-value pair emitted alongside a user's
// on-chain metadata event.
type UserMetadataEntry struct {
	Key   [32]byte
	Value []byte
}

// AddressDriverMetaData contains all meta data concerning the AddressDriver contract.
var AddressDriverMetaData = &bind.MetaData{
	ABI: `[{"inputs":[{"internalType":"address","name":"userAddr","type":"address"}],"name":"calcUserId","outputs":[{"internalType":"uint256","name":"userId","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"receiver","type":"uint256"},{"internalType":"address","name":"erc20","type":"address"},{"internalType":"uint128","name":"amt","type":"uint128"}],"name":"give","outputs":[],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"erc20","type":"address"},{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"config","type":"uint256"}],"internalType":"struct DripsReceiver[]","name":"currReceivers","type":"tuple[]"},{"internalType":"int128","name":"balanceDelta","type":"int128"},{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"config","type":"uint256"}],"internalType":"struct DripsReceiver[]","name":"newReceivers","type":"tuple[]"},{"internalType":"uint32","name":"maxEndHint1","type":"uint32"},{"internalType":"uint32","name":"maxEndHint2","type":"uint32"},{"internalType":"address","name":"transferTo","type":"address"}],"name":"setDrips","outputs":[{"internalType":"int128","name":"realBalanceDelta","type":"int128"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint32","name":"weight","type":"uint32"}],"internalType":"struct SplitsReceiver[]","name":"receivers","type":"tuple[]"}],"name":"setSplits","outputs":[],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"erc20","type":"address"},{"internalType":"address","name":"transferTo","type":"address"}],"name":"collect","outputs":[{"internalType":"uint128","name":"amt","type":"uint128"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"components":[{"internalType":"bytes32","name":"key","type":"bytes32"},{"internalType":"bytes","name":"value","type":"bytes"}],"internalType":"struct UserMetadata[]","name":"userMetadata","type":"tuple[]"}],"name":"emitUserMetadata","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
}

// AddressDriver is a Go binding around the AddressDriver contract, the
// driver that mints user IDs from plain Ethereum addresses.
type AddressDriver struct {
	AddressDriverCaller     // Read-only binding to the contract
	AddressDriverTransactor // Write-only binding to the contract
}

// AddressDriverCaller is a read-only Go binding around the AddressDriver contract.
type AddressDriverCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// AddressDriverTransactor is a write-only Go binding around the AddressDriver contract.
type AddressDriverTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewAddressDriver creates a new instance of AddressDriver, bound to a
// specific deployed contract.
func NewAddressDriver(address common.Address, backend bind.ContractBackend) (*AddressDriver, error) {
	contract, err := bindAddressDriver(address, backend, backend)
	if err != nil {
		return nil, err
	}
	return &AddressDriver{
		AddressDriverCaller:     AddressDriverCaller{contract: contract},
		AddressDriverTransactor: AddressDriverTransactor{contract: contract},
	}, nil
}

// bindAddressDriver binds a generic wrapper to an already deployed contract.
func bindAddressDriver(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor) (*bind.BoundContract, error) {
	parsed, err := AddressDriverMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, nil), nil
}

// CalcUserId is a free data retrieval call.
//
// Solidity: function calcUserId(address userAddr) view returns(uint256 userId)
func (_AddressDriver *AddressDriverCaller) CalcUserId(opts *bind.CallOpts, userAddr common.Address) (*big.Int, error) {
	var out []interface{}
	err := _AddressDriver.contract.Call(opts, &out, "calcUserId", userAddr)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// Give is a paid mutator transaction.
//
// Solidity: function give(uint256 receiver, address erc20, uint128 amt) returns()
func (_AddressDriver *AddressDriverTransactor) Give(opts *bind.TransactOpts, receiver *big.Int, erc20 common.Address, amt *big.Int) (*types.Transaction, error) {
	return _AddressDriver.contract.Transact(opts, "give", receiver, erc20, amt)
}

// SetDrips is a paid mutator transaction.
//
// Solidity: function setDrips(address erc20, (uint256,uint256)[] currReceivers, int128 balanceDelta, (uint256,uint256)[] newReceivers, uint32 maxEndHint1, uint32 maxEndHint2, address transferTo) returns(int128 realBalanceDelta)
func (_AddressDriver *AddressDriverTransactor) SetDrips(opts *bind.TransactOpts, erc20 common.Address, currReceivers []DripsReceiver, balanceDelta *big.Int, newReceivers []DripsReceiver, maxEndHint1 uint32, maxEndHint2 uint32, transferTo common.Address) (*types.Transaction, error) {
	return _AddressDriver.contract.Transact(opts, "setDrips", erc20, currReceivers, balanceDelta, newReceivers, maxEndHint1, maxEndHint2, transferTo)
}

// SetSplits is a paid mutator transaction.
//
// Solidity: function setSplits((uint256,uint32)[] receivers) returns()
func (_AddressDriver *AddressDriverTransactor) SetSplits(opts *bind.TransactOpts, receivers []SplitsReceiver) (*types.Transaction, error) {
	return _AddressDriver.contract.Transact(opts, "setSplits", receivers)
}

// Collect is a paid mutator transaction.
//
// Solidity: function collect(address erc20, address transferTo) returns(uint128 amt)
func (_AddressDriver *AddressDriverTransactor) Collect(opts *bind.TransactOpts, erc20 common.Address, transferTo common.Address) (*types.Transaction, error) {
	return _AddressDriver.contract.Transact(opts, "collect", erc20, transferTo)
}

// EmitUserMetadata is a paid mutator transaction.
//
// Solidity: function emitUserMetadata((bytes32,bytes)[] userMetadata) returns()
func (_AddressDriver *AddressDriverTransactor) EmitUserMetadata(opts *bind.TransactOpts, userMetadata []UserMetadataEntry) (*types.Transaction, error) {
	return _AddressDriver.contract.Transact(opts, "emitUserMetadata", userMetadata)
}
