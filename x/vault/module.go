package vault

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/rivervault/x/vault/keeper"
	"github.com/openalpha/rivervault/x/vault/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for vault
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "vault/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgSeedLiquidity{}, "vault/MsgSeedLiquidity", nil)
	cdc.RegisterConcrete(&types.MsgDeposit{}, "vault/MsgDeposit", nil)
	cdc.RegisterConcrete(&types.MsgMint{}, "vault/MsgMint", nil)
	cdc.RegisterConcrete(&types.MsgWithdraw{}, "vault/MsgWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgRedeem{}, "vault/MsgRedeem", nil)
	cdc.RegisterConcrete(&types.MsgRequestRedeem{}, "vault/MsgRequestRedeem", nil)
	cdc.RegisterConcrete(&types.MsgRequestWithdraw{}, "vault/MsgRequestWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgCancelRedeemRequest{}, "vault/MsgCancelRedeemRequest", nil)
	cdc.RegisterConcrete(&types.MsgClaimRedeem{}, "vault/MsgClaimRedeem", nil)
	cdc.RegisterConcrete(&types.MsgApproveShares{}, "vault/MsgApproveShares", nil)
	cdc.RegisterConcrete(&types.MsgSetFees{}, "vault/MsgSetFees", nil)
	cdc.RegisterConcrete(&types.MsgCollectFees{}, "vault/MsgCollectFees", nil)
	cdc.RegisterConcrete(&types.MsgPause{}, "vault/MsgPause", nil)
	cdc.RegisterConcrete(&types.MsgUnpause{}, "vault/MsgUnpause", nil)
	cdc.RegisterConcrete(&types.MsgSetVaultParams{}, "vault/MsgSetVaultParams", nil)
	cdc.RegisterConcrete(&types.MsgSetFeeExemption{}, "vault/MsgSetFeeExemption", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgCreatePool{},
		&types.MsgSeedLiquidity{},
		&types.MsgDeposit{},
		&types.MsgMint{},
		&types.MsgWithdraw{},
		&types.MsgRedeem{},
		&types.MsgRequestRedeem{},
		&types.MsgRequestWithdraw{},
		&types.MsgCancelRedeemRequest{},
		&types.MsgClaimRedeem{},
		&types.MsgApproveShares{},
		&types.MsgSetFees{},
		&types.MsgCollectFees{},
		&types.MsgPause{},
		&types.MsgUnpause{},
		&types.MsgSetVaultParams{},
		&types.MsgSetFeeExemption{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
	// TODO: register gateway routes once proto generation is set up
}

// AppModule implements an application module for the vault module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker marks pools to market and promotes matured redemption requests
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.EndBlocker(ctx)
}
