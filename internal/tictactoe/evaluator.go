package tictactoe

import (
	"fmt"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

// winLines enumerates the 3 rows, 3 columns and 2 diagonals as cell
// coordinates.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Result is the outcome of evaluating a board position.
type Result struct {
	Winner string // winning mark, or entity.EmptyCell when there is none
	IsDraw bool
}

// Evaluate inspects a board for a winning line or a full-board draw.
// It is a total function over well-formed boards; wrong dimensions are a
// precondition violation reported as ErrInvalidBoard.
func Evaluate(board entity.Board) (Result, error) {
	if !board.IsWellFormed() {
		return Result{}, fmt.Errorf("%w: expected %dx%d", apperror.ErrInvalidBoard, entity.BoardSize, entity.BoardSize)
	}

	for _, line := range winLines {
		a := board[line[0][0]][line[0][1]]
		b := board[line[1][0]][line[1][1]]
		c := board[line[2][0]][line[2][1]]

		if a != entity.EmptyCell && a == b && b == c {
			return Result{Winner: a}, nil
		}
	}

	return Result{IsDraw: board.IsFull()}, nil
}
