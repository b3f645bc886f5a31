package bdd

import "github.com/cucumber/godog"

// godog run ./tests/bdd/featureFiles/chat_service.feature
// Use of godog CLI is deprecated, please use *testing.T instead.
// See https://github.com/cucumber/godog/discussions/478 for details.
// Feature: 商品聊天功能
//   In order to negotiate a purchase
//   As buyers and sellers on the marketplace
//   I want to open item chat rooms and exchange messages

//   Background:
//     Given "buyer" 已登入並取得 Token "buyerToken"
//     And "seller" 已登入並取得 Token "sellerToken"
//     And a 商品 "腳踏車" 已存在 with "seller" as 賣家

//   Scenario: 成功建立商品聊天房間
//     When "buyer" 對商品 "腳踏車" 建立聊天房間
//     Then 聊天房間應該包含 "buyer" 和 "seller"

//   Scenario: 重複建立回傳同一房間
//     Given 已存在商品 "腳踏車" 的聊天房間 with "buyer" and "seller"
//     When "buyer" 對商品 "腳踏車" 建立聊天房間
//     Then 聊天房間數量應該是 1

//   Scenario: 發送與接收訊息
//     Given 已存在商品 "腳踏車" 的聊天房間 with "buyer" and "seller"
//     When "buyer" 發送訊息 "還在賣嗎？"
//     Then "seller" 應該收到訊息 "還在賣嗎？"

//   Scenario: 已讀回報
//     Given 已存在商品 "腳踏車" 的聊天房間 with "buyer" and "seller"
//     And "buyer" 發送訊息 "還在賣嗎？"
//     When "seller" 標記房間為已讀
//     Then "buyer" 應該收到已讀通知

func buyerCreatesRoomForItem(arg1, arg2 string) error {
	return godog.ErrPending
}

func roomShouldContain(arg1, arg2 string) error {
	return godog.ErrPending
}

func roomCountShouldBe(arg1 int) error {
	return godog.ErrPending
}

func sendsMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldReceiveMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func marksRoomAsRead(arg1 string) error {
	return godog.ErrPending
}

func shouldReceiveReadNotice(arg1 string) error {
	return godog.ErrPending
}

func itemWithSeller(arg1, arg2 string) error {
	return godog.ErrPending
}

func loginToken(arg1, arg2 string) error {
	return godog.ErrPending
}

func roomExistsForItemWith(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func InitializeChatServiceScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" 對商品 "([^"]*)" 建立聊天房間$`, buyerCreatesRoomForItem)
	ctx.Step(`^聊天房間應該包含 "([^"]*)" 和 "([^"]*)"$`, roomShouldContain)
	ctx.Step(`^聊天房間數量應該是 (\d+)$`, roomCountShouldBe)
	ctx.Step(`^"([^"]*)" 發送訊息 "([^"]*)"$`, sendsMessage)
	ctx.Step(`^"([^"]*)" 應該收到訊息 "([^"]*)"$`, shouldReceiveMessage)
	ctx.Step(`^"([^"]*)" 標記房間為已讀$`, marksRoomAsRead)
	ctx.Step(`^"([^"]*)" 應該收到已讀通知$`, shouldReceiveReadNotice)
	ctx.Step(`^a 商品 "([^"]*)" 已存在 with "([^"]*)" as 賣家$`, itemWithSeller)
	ctx.Step(`^"([^"]*)" 已登入並取得 Token "([^"]*)"$`, loginToken)
	ctx.Step(`^已存在商品 "([^"]*)" 的聊天房間 with "([^"]*)" and "([^"]*)"$`, roomExistsForItemWith)
}
