package sqlite

import (
	"fmt"

	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// listEventsPageSQLPlan carries the assembled SQL fragments for one
// page query. The count query reuses the same predicate so the total
// always matches what the page iterates.
type listEventsPageSQLPlan struct {
	whereClause      string
	params           []any
	orderClause      string
	limitClause      string
	countWhereClause string
	countParams      []any
}

func buildListEventsPageSQLPlan(req storage.ListEventsPageRequest) listEventsPageSQLPlan {
	where, params := eventPredicate(req)
	countWhere, countParams := eventPredicate(req)

	order := "ORDER BY seq ASC"
	if req.Descending {
		order = "ORDER BY seq DESC"
	}

	// One extra row signals whether a further page exists.
	limit := fmt.Sprintf("LIMIT %d", req.PageSize+1)
	if req.Start > 0 {
		limit = fmt.Sprintf("LIMIT %d OFFSET %d", req.PageSize+1, req.Start)
	}

	return listEventsPageSQLPlan{
		whereClause:      where,
		params:           params,
		orderClause:      order,
		limitClause:      limit,
		countWhereClause: countWhere,
		countParams:      countParams,
	}
}

// eventPredicate builds the WHERE fragment shared by the page and
// count queries.
func eventPredicate(req storage.ListEventsPageRequest) (string, []any) {
	clause := "game_id = ?"
	params := []any{req.GameID}
	if req.AfterSeq > 0 {
		clause += " AND seq > ?"
		params = append(params, req.AfterSeq)
	}
	if req.FilterClause != "" {
		clause += " AND " + req.FilterClause
		params = append(params, req.FilterParams...)
	}
	return clause, params
}
