package export

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const parallel = 4

// GameRecord - one finished game, flattened for analytics.
type GameRecord struct {
	GameID        string `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlayerID      string `parquet:"name=player_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlayerEmail   string `parquet:"name=player_email, type=BYTE_ARRAY, convertedtype=UTF8"`
	Board         string `parquet:"name=board, type=BYTE_ARRAY, convertedtype=UTF8"`
	Outcome       string `parquet:"name=outcome, type=BYTE_ARRAY, convertedtype=UTF8"`
	MoveCount     int32  `parquet:"name=move_count, type=INT32"`
	CreatedAtUnix int64  `parquet:"name=created_at_unix, type=INT64"`
	UpdatedAtUnix int64  `parquet:"name=updated_at_unix, type=INT64"`
}

// NewGameRecord - player may be nil when the owner no longer resolves.
func NewGameRecord(game *entity.Game, player *entity.Player) GameRecord {
	record := GameRecord{
		GameID:        game.ID,
		PlayerID:      game.PlayerID,
		Board:         game.Board.String(),
		Outcome:       string(game.Outcome),
		MoveCount:     int32(entity.BoardSize - len(game.Board.EmptyCells())), //nolint: gosec // at most 9
		CreatedAtUnix: game.CreatedAt.Unix(),
		UpdatedAtUnix: game.UpdatedAt.Unix(),
	}

	if player != nil {
		record.PlayerEmail = player.Email
	}

	return record
}

// WriteParquet - writes records to path with snappy compression, replacing any existing file.
func WriteParquet(path string, records []GameRecord) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(GameRecord), parallel)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, record := range records {
		if err = parquetWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write record %s: %w", record.GameID, err)
		}
	}

	if err = parquetWriter.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}

	return fileWriter.Close()
}

func ReadParquet(path string) ([]GameRecord, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(GameRecord), parallel)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer parquetReader.ReadStop()

	records := make([]GameRecord, int(parquetReader.GetNumRows()))
	if len(records) == 0 {
		return records, nil
	}

	if err = parquetReader.Read(&records); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return records, nil
}
