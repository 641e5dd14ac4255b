package controllers

import (
	"github.com/DedS3t/cashflow-backend/app/engine"
	"github.com/DedS3t/cashflow-backend/app/engine/deal"
	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type GameController struct {
	engine *engine.Manager
	log    logrus.FieldLogger
}

func NewGameController(m *engine.Manager, log logrus.FieldLogger) *GameController {
	return &GameController{engine: m, log: log}
}

var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:  fiber.StatusUnprocessableEntity,
	models.KindNotFound:    fiber.StatusNotFound,
	models.KindConcurrency: fiber.StatusConflict,
	models.KindState:       fiber.StatusConflict,
}

// fail writes err as {"kind", "error"}. Errors outside the game taxonomy are
// logged and reported without detail.
func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	kind := models.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		gc.log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"kind": models.KindInternal, "error": "internal error"})
	}
	return c.Status(status).JSON(err)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"kind": "unauthorized", "error": "missing user_id claim"})
}

func (gc *GameController) parse(c *fiber.Ctx, dto interface{}) error {
	if err := c.BodyParser(dto); err != nil {
		return models.Validation("malformed request body: %v", err)
	}
	return nil
}

func (gc *GameController) CreateRoom(c *fiber.Ctx) error {
	dto := new(models.RoomCreateDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	room, err := gc.engine.CreateRoom(c.UserContext(), dto.Name)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": room.Id})
}

func (gc *GameController) GetAllAvailRooms(c *fiber.Ctx) error {
	rooms, err := gc.engine.OpenRooms(c.UserContext())
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(rooms)
}

func (gc *GameController) VerifyRoom(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": gc.engine.VerifyRoom(c.UserContext(), c.Params("id"))})
}

func (gc *GameController) StartGame(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.StartGameDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.StartGame(c.UserContext(), c.Params("id"), user_id, dto.Players)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

func (gc *GameController) Roll(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.RollDto)
	if len(c.Body()) > 0 {
		if err := gc.parse(c, dto); err != nil {
			return gc.fail(c, err)
		}
	}
	res, err := gc.engine.Roll(c.UserContext(), c.Params("id"), user_id, dto.Dice)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) ChooseDeal(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.DealChoiceDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	offer, err := gc.engine.ChooseDeal(c.UserContext(), c.Params("id"), user_id, dto.Size)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(offer)
}

func (gc *GameController) ResolveDeal(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	req := new(deal.Request)
	if err := gc.parse(c, req); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.ResolveDeal(c.UserContext(), c.Params("id"), user_id, *req)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) TransferAsset(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.AssetTransferDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.TransferAsset(c.UserContext(), c.Params("id"), user_id, dto.AssetID, dto.TargetID)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) SellAsset(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.SellDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	res, err := gc.engine.SellAsset(c.UserContext(), c.Params("id"), user_id, dto.AssetID)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) TakeCredit(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.AmountDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.TakeCredit(c.UserContext(), c.Params("id"), user_id, dto.Amount)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) PayoffCredit(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.AmountDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.PayoffCredit(c.UserContext(), c.Params("id"), user_id, dto.Amount)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) Transfer(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	dto := new(models.TransferDto)
	if err := gc.parse(c, dto); err != nil {
		return gc.fail(c, err)
	}
	snap, err := gc.engine.Transfer(c.UserContext(), c.Params("id"), user_id, dto.Recipient, dto.Amount)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) Charity(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	snap, err := gc.engine.Charity(c.UserContext(), c.Params("id"), user_id)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) EndTurn(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := gc.engine.EndTurn(c.UserContext(), c.Params("id"), user_id)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) GameState(c *fiber.Ctx) error {
	snap, err := gc.engine.State(c.UserContext(), c.Params("id"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(snap)
}

func (gc *GameController) Transactions(c *fiber.Ctx) error {
	user_id, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	txs, err := gc.engine.Transactions(c.UserContext(), c.Params("id"), user_id)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(txs)
}
