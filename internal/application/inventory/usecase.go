package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// MovementUseCase registra entradas y salidas de forma transaccional: bloquea las filas de
// ingredientes (SELECT FOR UPDATE), valida todo el lote y solo entonces escribe stock y movimiento.
// Cualquier error deja el ledger sin cambios.
type MovementUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	loc       *time.Location
	log       zerolog.Logger
}

// NewMovementUseCase construye el caso de uso. loc es la zona horaria de los períodos (nil = UTC).
func NewMovementUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	loc *time.Location,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		loc:       loc,
		log:       log.With().Str("component", "movements").Logger(),
	}
}

// InflowItem ingrediente comprado. Quantity y Price llegan tal como los escribió el usuario.
type InflowItem struct {
	IngredientID string
	Quantity     string
	Price        string
	Unit         entity.Unit // unidad en la que se informa Quantity
}

// InflowInput entrada de CreateInflow.
type InflowInput struct {
	Items      []InflowItem
	Commentary string
	ActorName  string
}

// OutflowItem producto vendido; Quantity debe ser un entero positivo.
type OutflowItem struct {
	ProductID string
	Quantity  string
}

// OutflowInput entrada de CreateOutflow.
type OutflowInput struct {
	Items      []OutflowItem
	Commentary string
	ActorName  string
}

// CreateInflow suma al stock los ingredientes comprados y registra un movimiento "in".
// Los errores de formato de todas las líneas se acumulan en un domain.ValidationErrors;
// un ingrediente inexistente aborta la operación con domain.ErrNotFound.
func (uc *MovementUseCase) CreateInflow(ctx context.Context, in InflowInput) (*entity.Movement, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidation(domain.ErrEmptySelection, "", "Seleccione al menos 1 ingrediente")
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos LedgerRepos) error {
		stage := newStockStage(repos.Ingredients)
		var errs domain.ValidationErrors
		lines := make([]entity.MovementInflowLine, 0, len(in.Items))
		total := decimal.Zero

		for _, item := range in.Items {
			ing, err := stage.lock(ctx, item.IngredientID)
			if err != nil {
				return err
			}

			qty, qErr := inventory.ParseNumeric(item.Quantity, ing.Name)
			price, pErr := inventory.ParsePrice(item.Price, ing.Name)
			if err := collect(&errs, qErr, pErr); err != nil {
				return err
			}
			if qErr != nil || pErr != nil {
				continue
			}

			converted, cErr := inventory.ConvertUnit(qty, item.Unit, ing.Unit)
			if cErr != nil {
				if err := collect(&errs, cErr); err != nil {
					return err
				}
				continue
			}
			// El stock se guarda con 3 decimales; la línea registra lo mismo que se suma.
			converted = converted.Round(inventory.QuantityPlaces)
			if !converted.IsPositive() {
				errs = append(errs, domain.Violation{
					Kind:    domain.ErrNonPositiveValue,
					Subject: ing.Name,
					Message: fmt.Sprintf("La cantidad de %s es menor que 0,001 %s", ing.Name, ing.Unit),
				})
				continue
			}
			if ing.Quantity.Add(converted).GreaterThan(inventory.MaxQuantity) {
				errs = append(errs, inventory.TooLarge(ing.Name)...)
				continue
			}

			ing.Quantity = ing.Quantity.Add(converted)
			lines = append(lines, entity.MovementInflowLine{
				Name:     ing.Name,
				Quantity: converted,
				Unit:     ing.Unit,
				Price:    price,
			})
			total = total.Add(price)
		}
		if total.GreaterThan(inventory.MaxMoney) {
			errs = append(errs, inventory.TooLarge("el valor del movimiento")...)
		}

		if len(errs) > 0 {
			return errs
		}

		if err := stage.flush(ctx); err != nil {
			return err
		}
		mov := &entity.Movement{
			User:       in.ActorName,
			Value:      total,
			Type:       entity.MovementTypeIn,
			Commentary: in.Commentary,
			Inflows:    lines,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		uc.logFailure(err, entity.MovementTypeIn, in.ActorName)
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", created.ID).
		Str("type", created.Type).
		Str("user", created.User).
		Int("lines", len(created.Inflows)).
		Str("value", created.Value.StringFixed(2)).
		Msg("entrada registrada")
	return created, nil
}

// CreateOutflow descuenta del stock los ingredientes de la receta de cada producto vendido y
// registra un movimiento "out". Valida todo el lote antes de escribir: un producto con stock
// insuficiente no aplica ningún descuento, el resto se sigue validando para reportar todos los
// errores, y si hubo alguno no se escribe nada.
func (uc *MovementUseCase) CreateOutflow(ctx context.Context, in OutflowInput) (*entity.Movement, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidation(domain.ErrEmptySelection, "", "Seleccione al menos 1 producto")
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos LedgerRepos) error {
		stage := newStockStage(repos.Ingredients)
		var errs domain.ValidationErrors
		lines := make([]entity.MovementOutflowLine, 0, len(in.Items))
		total := decimal.Zero

		for _, item := range in.Items {
			product, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}

			count, qErr := inventory.ParseCount(item.Quantity, product.Name)
			if qErr != nil {
				if err := collect(&errs, qErr); err != nil {
					return err
				}
				continue
			}
			qty := decimal.NewFromInt(count)

			// Primero se calcula todo el descuento del producto; solo se aplica si alcanza el stock.
			pending := make(map[string]decimal.Decimal, len(product.Recipe))
			sufficient := true
			for _, ri := range product.Recipe {
				ing, err := stage.lock(ctx, ri.IngredientID)
				if err != nil {
					return err
				}
				current := ing.Quantity
				if v, ok := pending[ing.ID]; ok {
					current = v
				}
				remaining := current.Sub(ri.Quantity.Mul(qty))
				if remaining.IsNegative() {
					errs = append(errs, domain.Violation{
						Kind:    domain.ErrInsufficientStock,
						Subject: ing.Name,
						Message: fmt.Sprintf("Stock insuficiente del ingrediente %s", ing.Name),
					})
					sufficient = false
					continue
				}
				pending[ing.ID] = remaining
			}
			if !sufficient {
				continue
			}

			stage.apply(pending)
			value := product.Price.Mul(qty).Round(inventory.PricePlaces)
			total = total.Add(value)
			lines = append(lines, entity.MovementOutflowLine{
				Name:     product.Name,
				Quantity: count,
				Price:    value,
			})
		}
		if total.GreaterThan(inventory.MaxMoney) {
			errs = append(errs, inventory.TooLarge("el valor del movimiento")...)
		}

		if len(errs) > 0 {
			return errs
		}

		if err := stage.flush(ctx); err != nil {
			return err
		}
		mov := &entity.Movement{
			User:       in.ActorName,
			Value:      total,
			Type:       entity.MovementTypeOut,
			Commentary: in.Commentary,
			Outflows:   lines,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		uc.logFailure(err, entity.MovementTypeOut, in.ActorName)
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", created.ID).
		Str("type", created.Type).
		Str("user", created.User).
		Int("lines", len(created.Outflows)).
		Str("value", created.Value.StringFixed(2)).
		Msg("salida registrada")
	return created, nil
}

// Delete elimina un movimiento y sus líneas. El stock de los ingredientes no se modifica.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.movements.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("movement_id", id).Msg("movimiento eliminado")
	return nil
}

// GetByID obtiene un movimiento con sus líneas.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return ToMovementResponse(mov, true), nil
}

// ListByPeriod valida el período y devuelve sus movimientos (ambos extremos incluidos,
// más recientes primero, con líneas).
func (uc *MovementUseCase) ListByPeriod(ctx context.Context, start, end string) (inventory.Period, []*entity.Movement, error) {
	period, err := inventory.ParsePeriod(start, end, uc.loc)
	if err != nil {
		return inventory.Period{}, nil, err
	}
	list, err := uc.movements.ListByPeriod(ctx, period)
	if err != nil {
		return inventory.Period{}, nil, err
	}
	return period, list, nil
}

// List lista movimientos paginados. Con start_date y end_date filtra por período.
func (uc *MovementUseCase) List(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()

	var (
		list  []*entity.Movement
		total int
	)
	if in.StartDate != "" || in.EndDate != "" {
		_, all, err := uc.ListByPeriod(ctx, in.StartDate, in.EndDate)
		if err != nil {
			return nil, err
		}
		total = len(all)
		list = paginate(all, in.Offset(), in.Limit())
	} else {
		var err error
		if total, err = uc.movements.Count(ctx); err != nil {
			return nil, err
		}
		if list, err = uc.movements.List(ctx, in.Limit(), in.Offset()); err != nil {
			return nil, err
		}
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m, false))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

func (uc *MovementUseCase) logFailure(err error, movType, actor string) {
	if vErrs, ok := domain.AsValidation(err); ok {
		uc.log.Warn().
			Str("type", movType).
			Str("user", actor).
			Str("errors", strings.Join(vErrs.Messages(), "; ")).
			Msg("movimiento rechazado")
		return
	}
	uc.log.Error().Err(err).Str("type", movType).Str("user", actor).Msg("error registrando movimiento")
}

func paginate(list []*entity.Movement, offset, limit int) []*entity.Movement {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// ToMovementResponse convierte la entidad al DTO; withLines incluye las líneas.
func ToMovementResponse(m *entity.Movement, withLines bool) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:         m.ID,
		User:       m.User,
		Value:      m.Value,
		Type:       m.Type,
		Date:       m.Date,
		Commentary: m.Commentary,
	}
	if !withLines {
		return out
	}
	for _, l := range m.Inflows {
		out.Ingredients = append(out.Ingredients, dto.InflowLineResponse{
			Name: l.Name, Quantity: l.Quantity, Unit: string(l.Unit), Price: l.Price,
		})
	}
	for _, l := range m.Outflows {
		out.Products = append(out.Products, dto.OutflowLineResponse{
			Name: l.Name, Quantity: l.Quantity, Price: l.Price,
		})
	}
	return out
}
