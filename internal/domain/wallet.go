package domain

// Network describes the chain the SDK is connected to.
type Network struct {
	Name     string   `json:"name"`
	ChainID  uint64   `json:"chain_id"`
	Testnet  bool     `json:"testnet"`
	Ready    bool     `json:"ready"`
	Features Features `json:"features"`
}

// WalletState is the wallet-presence view exposed by the SDK.
type WalletState struct {
	HasWallet bool   `json:"has_wallet"`
	Address   string `json:"address,omitempty"`
}

// CreatedWallet is returned by wallet creation.
type CreatedWallet struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic,omitempty"`
}
