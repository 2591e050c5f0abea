package utxo

import (
	"math"
	"sort"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
)

// ExcludeReserved drops the utxos spent by any input of the reserved transactions.
func ExcludeReserved(utxos []*model.Utxo, reserved []*model.Transaction) []*model.Utxo {
	if len(reserved) == 0 {
		return utxos
	}

	spent := make(map[model.OutPoint]struct{})

	for _, tx := range reserved {
		for _, input := range tx.Inputs {
			spent[input.PreviousOutput] = struct{}{}
		}
	}

	available := make([]*model.Utxo, 0, len(utxos))

	for _, u := range utxos {
		if _, ok := spent[u.OutPoint()]; !ok {
			available = append(available, u)
		}
	}

	return available
}

// SelectCoins picks the utxos funding targetAmount. The rules are applied in order
// and the first one producing a set wins:
//
//  1. a utxo worth exactly targetAmount
//  2. all utxos worth less than targetAmount, if they sum to exactly targetAmount
//  3. the smallest utxo worth more than targetAmount
//  4. the shortest prefix of the utxos sorted by amount whose sum exceeds targetAmount
//
// available is expected in store order, ties go to the earlier utxo.
func SelectCoins(available []*model.Utxo, targetAmount uint64) ([]*model.Utxo, error) {
	if targetAmount == 0 {
		return nil, errors.NewInvalidArgumentError("target amount must be greater than zero")
	}

	for _, u := range available {
		if u.Amount() == targetAmount {
			return []*model.Utxo{u}, nil
		}
	}

	var (
		smaller    []*model.Utxo
		smallerSum uint64
		bigger     *model.Utxo
	)

	for _, u := range available {
		switch {
		case u.Amount() < targetAmount:
			smaller = append(smaller, u)
			smallerSum = addSaturating(smallerSum, u.Amount())
		case bigger == nil || u.Amount() < bigger.Amount():
			bigger = u
		}
	}

	if smallerSum == targetAmount && len(smaller) > 0 {
		return smaller, nil
	}

	if bigger != nil {
		return []*model.Utxo{bigger}, nil
	}

	sorted := make([]*model.Utxo, len(available))
	copy(sorted, available)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount() < sorted[j].Amount()
	})

	var sum uint64

	for i, u := range sorted {
		sum = addSaturating(sum, u.Amount())
		if sum > targetAmount {
			return sorted[:i+1], nil
		}
	}

	return nil, errors.NewInsufficientFundsError("available %d does not cover %d", sum, targetAmount)
}

func addSaturating(a, b uint64) uint64 {
	if a+b < a {
		return math.MaxUint64
	}

	return a + b
}
