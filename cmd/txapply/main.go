// Command txapply drives the transaction execution core against a badger-
// backed account/script store: it is the batch analogue of the teacher's
// root main.go, minus the P2P server, mempool and miner loop that sat
// outside this system's scope (SPEC_FULL.md §1). Where the teacher's main
// wired a live node around core/execution.Executor, txapply wires a single
// call to execution.RunBlock/UndoBlock around a gob-encoded batch of
// transactions, using the same store.Init/defer store.Close() shape.
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"

	"novacoin/core/contract"
	"novacoin/core/execution"
	"novacoin/core/store"
	"novacoin/core/types"
	"novacoin/core/undo"
)

func registerGobTypes() {
	gob.Register(&types.RegisterAccountTx{})
	gob.Register(&types.BaseTransferTx{})
	gob.Register(&types.ContractCallTx{})
	gob.Register(&types.RewardTx{})
	gob.Register(&types.RegisterContractTx{})
	gob.Register(&types.DelegateVoteTx{})
	gob.Register(&types.MultisigTransferTx{})
	gob.Register(&types.FcoinStakeTx{})
}

func main() {
	registerGobTypes()

	dbPath := flag.String("db", "./data/txapply", "badger database directory")
	txFile := flag.String("txfile", "", "gob file containing a []types.Transaction batch")
	undoFile := flag.String("undofile", "", "gob file to write (apply mode) or read (undo mode) the block's undo records")
	height := flag.Int64("height", 1, "block height the batch is being applied at")
	fuelRate := flag.Uint64("fuelrate", 1, "fuel price applied to Contract-Call/Register-Contract")
	mode := flag.String("mode", "apply", "apply | undo")
	genKey := flag.Bool("genkey", false, "print a fresh secp256k1 key pair and exit")
	flag.Parse()

	if *genKey {
		printNewKeyPair()
		return
	}

	if *txFile == "" {
		fmt.Fprintln(os.Stderr, "txapply: -txfile is required")
		os.Exit(2)
	}

	store.Init(*dbPath)
	defer store.Close()

	accounts := store.NewAccountStore(store.DB)
	scripts := store.NewScriptStore(store.DB)
	ctx := execution.NewContext(accounts, scripts, contract.Reference{}, *height, *fuelRate)

	txs, err := loadTransactions(*txFile)
	if err != nil {
		log.Fatalf("txapply: load transactions: %v", err)
	}

	switch *mode {
	case "apply":
		runApply(ctx, txs, *undoFile)
	case "undo":
		if *undoFile == "" {
			fmt.Fprintln(os.Stderr, "txapply: -undofile is required for -mode=undo")
			os.Exit(2)
		}
		runUndo(ctx, txs, *undoFile)
	default:
		fmt.Fprintf(os.Stderr, "txapply: unknown -mode %q\n", *mode)
		os.Exit(2)
	}
}

func printNewKeyPair() {
	kp, err := newKeyPair()
	if err != nil {
		log.Fatalf("txapply: genkey: %v", err)
	}
	fmt.Println(kp)
}

func runApply(ctx *execution.Context, txs []types.Transaction, undoFile string) {
	res := execution.RunBlock(ctx, txs)
	fmt.Printf("tx-root: %x\n", execution.TxRoot(txs))
	for i, tx := range txs {
		if res.Rejected[i] != nil {
			fmt.Printf("tx[%d] %s REJECTED: %v\n", i, tx.Kind(), res.Rejected[i])
			continue
		}
		fmt.Printf("tx[%d] %s applied, hash=%x\n", i, tx.Kind(), tx.Hash())
	}
	if undoFile == "" {
		return
	}
	if err := saveUndoRecords(undoFile, res.Undos); err != nil {
		log.Fatalf("txapply: save undo records: %v", err)
	}
}

func runUndo(ctx *execution.Context, txs []types.Transaction, undoFile string) {
	undos, err := loadUndoRecords(undoFile)
	if err != nil {
		log.Fatalf("txapply: load undo records: %v", err)
	}
	res := &execution.BlockResult{Undos: undos, Rejected: make([]error, len(undos))}
	if err := execution.UndoBlock(ctx, txs, res); err != nil {
		log.Fatalf("txapply: undo block: %v", err)
	}
	fmt.Printf("undid %d transaction(s)\n", len(txs))
}

func loadTransactions(path string) ([]types.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var txs []types.Transaction
	if err := gob.NewDecoder(f).Decode(&txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func saveUndoRecords(path string, undos []*undo.TxUndo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(undos)
}

func loadUndoRecords(path string) ([]*undo.TxUndo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var undos []*undo.TxUndo
	if err := gob.NewDecoder(f).Decode(&undos); err != nil {
		return nil, err
	}
	return undos, nil
}
