package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// DripsReceiver is the on-chain tuple representation of a drips receiver:
// the receiving user ID and the packed stream configuration.
type DripsReceiver struct {
	UserId *big.Int
	Config *big.Int
}

// SplitsReceiver is the on-chain tuple representation of a splits
// receiver.
type SplitsReceiver struct {
	UserId *big.Int
	Weight uint32
}

// DripsHistoryEntry is one entry of a sender's drips history, used to
// prove current-cycle amounts when squeezing.
type DripsHistoryEntry struct {
	DripsHash  [32]byte
	Receivers  []DripsReceiver
	UpdateTime uint32
	MaxEnd     uint32
}

// DripsStateResult is the decoded return tuple of dripsState.
type DripsStateResult struct {
	DripsHash        [32]byte
	DripsHistoryHash [32]byte
	UpdateTime       uint32
	Balance          *big.Int
	MaxEnd           uint32
}

// SplitResultOutput is the decoded return tuple of splitResult.
type SplitResultOutput struct {
	CollectableAmt *big.Int
	SplitAmt       *big.Int
}

// DripsHubMetaData contains all meta data concerning the DripsHub contract.
var DripsHubMetaData = &bind.MetaData{
	ABI: `[{"inputs":[],"name":"cycleSecs","outputs":[{"internalType":"uint32","name":"","type":"uint32"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"}],"name":"receivableDripsCycles","outputs":[{"internalType":"uint32","name":"cycles","type":"uint32"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"},{"internalType":"uint32","name":"maxCycles","type":"uint32"}],"name":"receiveDripsResult","outputs":[{"internalType":"uint128","name":"receivableAmt","type":"uint128"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"},{"internalType":"uint256","name":"senderId","type":"uint256"},{"internalType":"bytes32","name":"historyHash","type":"bytes32"},{"components":[{"internalType":"bytes32","name":"dripsHash","type":"bytes32"},{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"config","type":"uint256"}],"internalType":"struct DripsReceiver[]","name":"receivers","type":"tuple[]"},{"internalType":"uint32","name":"updateTime","type":"uint32"},{"internalType":"uint32","name":"maxEnd","type":"uint32"}],"internalType":"struct DripsHistoryEntry[]","name":"dripsHistory","type":"tuple[]"}],"name":"squeezeDripsResult","outputs":[{"internalType":"uint128","name":"amt","type":"uint128"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"}],"name":"splittable","outputs":[{"internalType":"uint128","name":"amt","type":"uint128"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint32","name":"weight","type":"uint32"}],"internalType":"struct SplitsReceiver[]","name":"currReceivers","type":"tuple[]"},{"internalType":"uint128","name":"amount","type":"uint128"}],"name":"splitResult","outputs":[{"internalType":"uint128","name":"collectableAmt","type":"uint128"},{"internalType":"uint128","name":"splitAmt","type":"uint128"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"}],"name":"collectable","outputs":[{"internalType":"uint128","name":"amt","type":"uint128"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"}],"name":"dripsState","outputs":[{"internalType":"bytes32","name":"dripsHash","type":"bytes32"},{"internalType":"bytes32","name":"dripsHistoryHash","type":"bytes32"},{"internalType":"uint32","name":"updateTime","type":"uint32"},{"internalType":"uint128","name":"balance","type":"uint128"},{"internalType":"uint32","name":"maxEnd","type":"uint32"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"assetId","type":"uint256"},{"components":[{"internalType":"uint256","name":"userId","type":"uint256"},{"internalType":"uint256","name":"config","type":"uint256"}],"internalType":"struct DripsReceiver[]","name":"receivers","type":"tuple[]"},{"internalType":"uint32","name":"timestamp","type":"uint32"}],"name":"balanceAt","outputs":[{"internalType":"uint128","name":"balance","type":"uint128"}],"stateMutability":"view","type":"function"}]`,
}

// DripsHub is a Go binding around the DripsHub contract. The hub is
// read-only from this library's point of view; all mutating calls go
// through a driver.
type DripsHub struct {
	DripsHubCaller // Read-only binding to the contract
}

// DripsHubCaller is a read-only Go binding around the DripsHub contract.
type DripsHubCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewDripsHub creates a new instance of DripsHub, bound to a specific
// deployed contract.
func NewDripsHub(address common.Address, backend bind.ContractBackend) (*DripsHub, error) {
	contract, err := bindDripsHub(address, backend, backend)
	if err != nil {
		return nil, err
	}
	return &DripsHub{DripsHubCaller: DripsHubCaller{contract: contract}}, nil
}

// bindDripsHub binds a generic wrapper to an already deployed contract.
func bindDripsHub(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor) (*bind.BoundContract, error) {
	parsed, err := DripsHubMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, nil), nil
}

// CycleSecs is a free data retrieval call.
//
// Solidity: function cycleSecs() view returns(uint32)
func (_DripsHub *DripsHubCaller) CycleSecs(opts *bind.CallOpts) (uint32, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "cycleSecs")
	if err != nil {
		return *new(uint32), err
	}
	out0 := *abi.ConvertType(out[0], new(uint32)).(*uint32)
	return out0, err
}

// ReceivableDripsCycles is a free data retrieval call.
//
// Solidity: function receivableDripsCycles(uint256 userId, uint256 assetId) view returns(uint32 cycles)
func (_DripsHub *DripsHubCaller) ReceivableDripsCycles(opts *bind.CallOpts, userId *big.Int, assetId *big.Int) (uint32, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "receivableDripsCycles", userId, assetId)
	if err != nil {
		return *new(uint32), err
	}
	out0 := *abi.ConvertType(out[0], new(uint32)).(*uint32)
	return out0, err
}

// ReceiveDripsResult is a free data retrieval call.
//
// Solidity: function receiveDripsResult(uint256 userId, uint256 assetId, uint32 maxCycles) view returns(uint128 receivableAmt)
func (_DripsHub *DripsHubCaller) ReceiveDripsResult(opts *bind.CallOpts, userId *big.Int, assetId *big.Int, maxCycles uint32) (*big.Int, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "receiveDripsResult", userId, assetId, maxCycles)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// SqueezeDripsResult is a free data retrieval call.
//
// Solidity: function squeezeDripsResult(uint256 userId, uint256 assetId, uint256 senderId, bytes32 historyHash, (bytes32,(uint256,uint256)[],uint32,uint32)[] dripsHistory) view returns(uint128 amt)
func (_DripsHub *DripsHubCaller) SqueezeDripsResult(opts *bind.CallOpts, userId *big.Int, assetId *big.Int, senderId *big.Int, historyHash [32]byte, dripsHistory []DripsHistoryEntry) (*big.Int, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "squeezeDripsResult", userId, assetId, senderId, historyHash, dripsHistory)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// Splittable is a free data retrieval call.
//
// Solidity: function splittable(uint256 userId, uint256 assetId) view returns(uint128 amt)
func (_DripsHub *DripsHubCaller) Splittable(opts *bind.CallOpts, userId *big.Int, assetId *big.Int) (*big.Int, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "splittable", userId, assetId)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// SplitResult is a free data retrieval call.
//
// Solidity: function splitResult(uint256 userId, (uint256,uint32)[] currReceivers, uint128 amount) view returns(uint128 collectableAmt, uint128 splitAmt)
func (_DripsHub *DripsHubCaller) SplitResult(opts *bind.CallOpts, userId *big.Int, currReceivers []SplitsReceiver, amount *big.Int) (SplitResultOutput, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "splitResult", userId, currReceivers, amount)
	outstruct := new(SplitResultOutput)
	if err != nil {
		return *outstruct, err
	}
	outstruct.CollectableAmt = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	outstruct.SplitAmt = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	return *outstruct, err
}

// Collectable is a free data retrieval call.
//
// Solidity: function collectable(uint256 userId, uint256 assetId) view returns(uint128 amt)
func (_DripsHub *DripsHubCaller) Collectable(opts *bind.CallOpts, userId *big.Int, assetId *big.Int) (*big.Int, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "collectable", userId, assetId)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// DripsState is a free data retrieval call.
//
// Solidity: function dripsState(uint256 userId, uint256 assetId) view returns(bytes32 dripsHash, bytes32 dripsHistoryHash, uint32 updateTime, uint128 balance, uint32 maxEnd)
func (_DripsHub *DripsHubCaller) DripsState(opts *bind.CallOpts, userId *big.Int, assetId *big.Int) (DripsStateResult, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "dripsState", userId, assetId)
	outstruct := new(DripsStateResult)
	if err != nil {
		return *outstruct, err
	}
	outstruct.DripsHash = *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	outstruct.DripsHistoryHash = *abi.ConvertType(out[1], new([32]byte)).(*[32]byte)
	outstruct.UpdateTime = *abi.ConvertType(out[2], new(uint32)).(*uint32)
	outstruct.Balance = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	outstruct.MaxEnd = *abi.ConvertType(out[4], new(uint32)).(*uint32)
	return *outstruct, err
}

// BalanceAt is a free data retrieval call.
//
// Solidity: function balanceAt(uint256 userId, uint256 assetId, (uint256,uint256)[] receivers, uint32 timestamp) view returns(uint128 balance)
func (_DripsHub *DripsHubCaller) BalanceAt(opts *bind.CallOpts, userId *big.Int, assetId *big.Int, receivers []DripsReceiver, timestamp uint32) (*big.Int, error) {
	var out []interface{}
	err := _DripsHub.contract.Call(opts, &out, "balanceAt", userId, assetId, receivers, timestamp)
	if err != nil {
		return *new(*big.Int), err
	}
	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}
