package types

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var testSigner = sdk.AccAddress([]byte("signer______________")).String()

func TestMsgCreatePoolValidateBasic(t *testing.T) {
	testCases := []struct {
		name    string
		msg     MsgCreatePool
		wantErr bool
	}{
		{"valid", MsgCreatePool{Authority: testSigner, PoolID: "p", AssetDenom: "uusd"}, false},
		{"bad authority", MsgCreatePool{Authority: "nope", PoolID: "p", AssetDenom: "uusd"}, true},
		{"missing pool", MsgCreatePool{Authority: testSigner, AssetDenom: "uusd"}, true},
		{"pool id with key separator", MsgCreatePool{Authority: testSigner, PoolID: "a/b", AssetDenom: "uusd"}, true},
		{"bad denom", MsgCreatePool{Authority: testSigner, PoolID: "p", AssetDenom: "!"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateBasic() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMsgDepositValidateBasic(t *testing.T) {
	testCases := []struct {
		name    string
		msg     MsgDeposit
		wantErr bool
	}{
		{"valid", MsgDeposit{Depositor: testSigner, PoolID: "p", Amount: "100"}, false},
		{"bad depositor", MsgDeposit{Depositor: "nope", PoolID: "p", Amount: "100"}, true},
		{"missing pool", MsgDeposit{Depositor: testSigner, Amount: "100"}, true},
		{"missing amount", MsgDeposit{Depositor: testSigner, PoolID: "p"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateBasic() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMsgGetSigners(t *testing.T) {
	msgs := []interface {
		GetSigners() []sdk.AccAddress
	}{
		MsgDeposit{Depositor: testSigner, PoolID: "p", Amount: "1"},
		MsgWithdraw{Caller: testSigner, PoolID: "p", Amount: "1"},
		MsgRequestRedeem{Caller: testSigner, PoolID: "p", Shares: "1"},
		MsgRequestWithdraw{Caller: testSigner, PoolID: "p", Amount: "1"},
		MsgCollectFees{Caller: testSigner, PoolID: "p"},
	}
	for _, msg := range msgs {
		signers := msg.GetSigners()
		if len(signers) != 1 || signers[0].String() != testSigner {
			t.Errorf("%T: unexpected signers %v", msg, signers)
		}
	}
}
