package blockchain

import (
	"context"

	"github.com/looplab/fsm"
)

const (
	FSMStateStopped        = "STOPPED"
	FSMStateRunning        = "RUNNING"
	FSMStateMining         = "MINING"
	FSMStateCatchingBlocks = "CATCHINGBLOCKS"

	FSMEventRun           = "RUN"
	FSMEventMine          = "MINE"
	FSMEventMined         = "MINED"
	FSMEventCatchupBlocks = "CATCHUPBLOCKS"
	FSMEventCaughtUp      = "CAUGHTUP"
	FSMEventStop          = "STOP"
)

// NewFiniteStateMachine creates the state machine that keeps mining and chain
// adoption from running at the same time:
//
//	STOPPED --RUN--> RUNNING --MINE--> MINING --MINED--> RUNNING
//	RUNNING --CATCHUPBLOCKS--> CATCHINGBLOCKS --CAUGHTUP--> RUNNING
func (b *BlockChain) NewFiniteStateMachine(opts ...func(*fsm.FSM)) *fsm.FSM {
	finiteStateMachine := fsm.NewFSM(
		FSMStateStopped,
		fsm.Events{
			{Name: FSMEventRun, Src: []string{FSMStateStopped}, Dst: FSMStateRunning},
			{Name: FSMEventMine, Src: []string{FSMStateRunning}, Dst: FSMStateMining},
			{Name: FSMEventMined, Src: []string{FSMStateMining}, Dst: FSMStateRunning},
			{Name: FSMEventCatchupBlocks, Src: []string{FSMStateRunning}, Dst: FSMStateCatchingBlocks},
			{Name: FSMEventCaughtUp, Src: []string{FSMStateCatchingBlocks}, Dst: FSMStateRunning},
			{
				Name: FSMEventStop,
				Src:  []string{FSMStateRunning, FSMStateMining, FSMStateCatchingBlocks},
				Dst:  FSMStateStopped,
			},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.logger.Debugf("[BlockChain] state %s -> %s", e.Src, e.Dst)
			},
		},
	)

	for _, opt := range opts {
		opt(finiteStateMachine)
	}

	return finiteStateMachine
}

// State returns the current state machine state.
func (b *BlockChain) State() string {
	return b.finiteStateMachine.Current()
}
