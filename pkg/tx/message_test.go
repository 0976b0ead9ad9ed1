package tx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

func TestBuilders(t *testing.T) {
	send, err := NewBankSend(signer1Address, 10, "basecro")
	require.NoError(t, err)
	assert.Equal(t, BankSend{To: signer1Address, Amount: types.NewCoin("basecro", 10)}, send)
	assert.Equal(t, TypeURLMsgSend, send.TypeURL())

	del, err := NewDelegate(validator1, 20, "basecro")
	require.NoError(t, err)
	assert.Equal(t, Delegate{Validator: validator1, Amount: types.NewCoin("basecro", 20)}, del)
	assert.Equal(t, TypeURLMsgDelegate, del.TypeURL())

	und, err := NewUndelegate(validator1, 30, "basecro")
	require.NoError(t, err)
	assert.Equal(t, Undelegate{Validator: validator1, Amount: types.NewCoin("basecro", 30)}, und)
	assert.Equal(t, TypeURLMsgUndelegate, und.TypeURL())

	red, err := NewBeginRedelegate(validator1, validator2, 40, "basecro")
	require.NoError(t, err)
	assert.Equal(t, BeginRedelegate{SrcValidator: validator1, DstValidator: validator2, Amount: types.NewCoin("basecro", 40)}, red)
	assert.Equal(t, TypeURLMsgBeginRedelegate, red.TypeURL())
}

func TestBuilders_ZeroAmount(t *testing.T) {
	builders := map[string]func() error{
		"send": func() error {
			_, err := NewBankSend(signer1Address, 0, "basecro")
			return err
		},
		"delegate": func() error {
			_, err := NewDelegate(validator1, 0, "basecro")
			return err
		},
		"undelegate": func() error {
			_, err := NewUndelegate(validator1, 0, "basecro")
			return err
		},
		"redelegate": func() error {
			_, err := NewBeginRedelegate(validator1, validator2, 0, "basecro")
			return err
		},
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			err := build()
			require.ErrorIs(t, err, types.ErrInvalidAmount)
			stage, ok := types.StageOf(err)
			require.True(t, ok)
			assert.Equal(t, types.StageMessage, stage)
			assert.False(t, types.IsUserInputError(err))
		})
	}
}

func TestBuilders_EmptyFields(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"send no recipient", func() error { _, err := NewBankSend("", 1, "basecro"); return err }()},
		{"send no denom", func() error { _, err := NewBankSend(signer1Address, 1, ""); return err }()},
		{"delegate no validator", func() error { _, err := NewDelegate("", 1, "basecro"); return err }()},
		{"undelegate no denom", func() error { _, err := NewUndelegate(validator1, 1, ""); return err }()},
		{"redelegate no src", func() error { _, err := NewBeginRedelegate("", validator2, 1, "basecro"); return err }()},
		{"redelegate no dst", func() error { _, err := NewBeginRedelegate(validator1, "", 1, "basecro"); return err }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, types.ErrInvalidMessage), "error = %v", tt.err)
		})
	}
}

func TestBuilders_ErrorReturnsZeroValue(t *testing.T) {
	m, err := NewDelegate(validator1, 0, "basecro")
	require.Error(t, err)
	assert.Equal(t, Delegate{}, m)
}
