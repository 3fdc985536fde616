package router

// Minimal ABI fragments for the V2-style router and the ERC-20 surface the
// client touches. Kept as JSON consts so no generated bindings are needed.
const (
	RouterABI = `[
		{"inputs":[],"name":"WETH","outputs":[{"internalType":"address","name":"","type":"address"}],
		 "stateMutability":"view","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"}],
		 "name":"getAmountsOut","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"view","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactETHForTokens","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"payable","type":"function"},

		{"inputs":[
			{"internalType":"uint256","name":"amountIn","type":"uint256"},
			{"internalType":"uint256","name":"amountOutMin","type":"uint256"},
			{"internalType":"address[]","name":"path","type":"address[]"},
			{"internalType":"address","name":"to","type":"address"},
			{"internalType":"uint256","name":"deadline","type":"uint256"}],
		 "name":"swapExactTokensForTokens","outputs":[
			{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],
		 "stateMutability":"nonpayable","type":"function"}
	]`

	ERC20ABI = `[
		{"constant":true,"inputs":[{"name":"_owner","type":"address"}],
		 "name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},

		{"constant":false,"inputs":[
			{"name":"_spender","type":"address"},
			{"name":"_value","type":"uint256"}],
		 "name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},

		{"constant":true,"inputs":[
			{"name":"_owner","type":"address"},
			{"name":"_spender","type":"address"}],
		 "name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},

		{"constant":true,"inputs":[],
		 "name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},

		{"constant":true,"inputs":[],
		 "name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
	]`
)
