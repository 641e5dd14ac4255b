package models

type RollDto struct {
	Dice int `json:"dice"`
}

type DealChoiceDto struct {
	Size string `json:"size"`
}

type AmountDto struct {
	Amount int64 `json:"amount"`
}

type TransferDto struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

type AssetTransferDto struct {
	AssetID  string `json:"assetId"`
	TargetID string `json:"targetId"`
}

type SellDto struct {
	AssetID string `json:"assetId"`
}
