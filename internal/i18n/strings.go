package i18n

// Strings is the subset of the wallet app string table the probe plan and
// renderer need.
type Strings struct {
	// Labels
	SDKTest     string
	RunAllTests string
	Running     string
	Results     string
	Pass        string
	Fail        string
	Skip        string
	Network     string
	Wallet      string
	Ready       string
	Connected   string
	None        string
	Yes         string
	No          string
	Testnet     string
	Mainnet     string

	// Probe names
	TestNetworkInfo      string
	TestWalletCreate     string
	TestExportMnemonic   string
	TestExportPrivateKey string
	TestBalanceQuery     string
	TestTokenManager     string
	TestBridgeAvailable  string
	TestFlashblocks      string
	TestGiwaIDAvailable  string
	TestDojangAvailable  string
	TestFaucetAvailable  string
	TestFeatureSummary   string

	// Probe messages
	WalletExists             string
	NoWallet                 string
	NoAddress                string
	Created                  string
	NetworkConfigUnavailable string
	ChainID                  string
	NoMnemonic               string
	Words                    string
	ExportFailed             string
	TokenManagerReady        string
	Bridge                   string
	GiwaID                   string
	Dojang                   string
	ToggleWorking            string
	NotAvailableOnNetwork    string
	MainnetFaucetUnavailable string
	FaucetURLUnavailable     string
	FeaturesAvailable        string
}

var tables = map[Language]Strings{
	Korean: {
		SDKTest:     "SDK 테스트",
		RunAllTests: "모든 테스트 실행",
		Running:     "실행 중",
		Results:     "결과",
		Pass:        "통과",
		Fail:        "실패",
		Skip:        "건너뜀",
		Network:     "네트워크",
		Wallet:      "지갑",
		Ready:       "준비됨",
		Connected:   "연결됨",
		None:        "없음",
		Yes:         "예",
		No:          "아니오",
		Testnet:     "테스트넷",
		Mainnet:     "메인넷",

		TestNetworkInfo:      "네트워크 정보",
		TestWalletCreate:     "지갑 생성",
		TestExportMnemonic:   "복구 문구 내보내기",
		TestExportPrivateKey: "개인키 내보내기",
		TestBalanceQuery:     "잔액 조회",
		TestTokenManager:     "토큰 관리자",
		TestBridgeAvailable:  "브릿지 사용 가능",
		TestFlashblocks:      "Flashblocks",
		TestGiwaIDAvailable:  "GIWA ID 사용 가능",
		TestDojangAvailable:  "Dojang 사용 가능",
		TestFaucetAvailable:  "Faucet 사용 가능",
		TestFeatureSummary:   "기능 요약",

		WalletExists:             "지갑이 이미 존재함",
		NoWallet:                 "지갑 없음",
		NoAddress:                "주소 없음",
		Created:                  "생성됨",
		NetworkConfigUnavailable: "네트워크 설정을 사용할 수 없음",
		ChainID:                  "Chain ID",
		NoMnemonic:               "니모닉이 없습니다 (개인키로 가져온 지갑)",
		Words:                    "개 단어",
		ExportFailed:             "내보내기 실패",
		TokenManagerReady:        "토큰 관리자 준비됨",
		Bridge:                   "브릿지 사용 가능",
		GiwaID:                   "GIWA ID 사용 가능",
		Dojang:                   "Dojang 사용 가능",
		ToggleWorking:            "토글 작동 중",
		NotAvailableOnNetwork:    "이 네트워크에서 사용 불가",
		MainnetFaucetUnavailable: "메인넷 - faucet 사용 불가",
		FaucetURLUnavailable:     "Faucet URL을 사용할 수 없음",
		FeaturesAvailable:        "개 기능 사용 가능",
	},
	English: {
		SDKTest:     "SDK Test",
		RunAllTests: "Run All Tests",
		Running:     "Running",
		Results:     "Results",
		Pass:        "Pass",
		Fail:        "Fail",
		Skip:        "Skip",
		Network:     "Network",
		Wallet:      "Wallet",
		Ready:       "Ready",
		Connected:   "Connected",
		None:        "None",
		Yes:         "Yes",
		No:          "No",
		Testnet:     "Testnet",
		Mainnet:     "Mainnet",

		TestNetworkInfo:      "Network Info",
		TestWalletCreate:     "Wallet Create",
		TestExportMnemonic:   "Export Mnemonic",
		TestExportPrivateKey: "Export Private Key",
		TestBalanceQuery:     "Balance Query",
		TestTokenManager:     "Token Manager",
		TestBridgeAvailable:  "Bridge Available",
		TestFlashblocks:      "Flashblocks",
		TestGiwaIDAvailable:  "GIWA ID Available",
		TestDojangAvailable:  "Dojang Available",
		TestFaucetAvailable:  "Faucet Available",
		TestFeatureSummary:   "Feature Summary",

		WalletExists:             "Wallet already exists",
		NoWallet:                 "No wallet",
		NoAddress:                "No address",
		Created:                  "Created",
		NetworkConfigUnavailable: "Network config not available",
		ChainID:                  "Chain ID",
		NoMnemonic:               "No mnemonic (imported via private key)",
		Words:                    " words",
		ExportFailed:             "Failed to export",
		TokenManagerReady:        "Token manager ready",
		Bridge:                   "Bridge available",
		GiwaID:                   "GIWA ID available",
		Dojang:                   "Dojang available",
		ToggleWorking:            "Toggle working",
		NotAvailableOnNetwork:    "Not available on this network",
		MainnetFaucetUnavailable: "Mainnet - faucet not available",
		FaucetURLUnavailable:     "Faucet URL not available",
		FeaturesAvailable:        " features available",
	},
}
