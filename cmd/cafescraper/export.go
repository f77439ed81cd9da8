package main

import (
	"fmt"

	"github.com/RecoveryAshes/CafeScraper/internal/dataset"
	"github.com/RecoveryAshes/CafeScraper/internal/exporter"
	"github.com/RecoveryAshes/CafeScraper/internal/utils"
	"github.com/spf13/cobra"
)

// export 子命令参数
var (
	exportInput  string
	exportOutput string
	exportFormat string
	exportFields string
)

// dataset 子命令参数
var (
	datasetInput       string
	datasetOutput      string
	datasetLabel       string
	datasetRequireBody bool
	datasetMaxChars    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "将已保存的结果(JSON/CSV)转换为其他格式",
	Example: `  cafescraper export --input data/output/naver_cafe_titles.json --format parquet
  cafescraper export -i rows.csv -f json -o rows.json --fields page,title,url`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := exporter.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		out, err := exporter.Convert(exportInput, exportOutput, format, exporter.ParseFields(exportFields))
		if err != nil {
			return fmt.Errorf("转换失败: %w", err)
		}
		utils.Infof("✅ 转换完成: %s -> %s", exportInput, out)
		return nil
	},
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "从采集结果生成 Sentence,Label 训练数据集",
	Example: `  cafescraper dataset --input data/output/naver_cafe_titles.json --output data/dataset_ad.csv --label 광고`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if datasetMaxChars < 0 {
			return fmt.Errorf("最大字符数不能为负数,当前值: %d", datasetMaxChars)
		}
		_, err := dataset.Make(datasetInput, datasetOutput, dataset.Options{
			Label:       datasetLabel,
			RequireBody: datasetRequireBody,
			MaxChars:    datasetMaxChars,
		})
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "输入文件 (.json 或 .csv)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "输出格式 (csv|json|parquet)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "输出路径 (默认替换输入文件扩展名)")
	exportCmd.Flags().StringVar(&exportFields, "fields", "", "输出列顺序,如 page,title,url")
	_ = exportCmd.MarkFlagRequired("input")
	_ = exportCmd.MarkFlagRequired("format")

	datasetCmd.Flags().StringVarP(&datasetInput, "input", "i", "", "采集结果文件 (.json 或 .csv)")
	datasetCmd.Flags().StringVarP(&datasetOutput, "output", "o", "", "数据集CSV路径")
	datasetCmd.Flags().StringVar(&datasetLabel, "label", "", "写入每条样本的标签,如 광고")
	datasetCmd.Flags().BoolVar(&datasetRequireBody, "require-body", false, "跳过正文为空的记录(空正文总会被跳过)")
	datasetCmd.Flags().IntVar(&datasetMaxChars, "max-chars", 0, "每条样本最大字符数,0表示不限制")
	_ = datasetCmd.MarkFlagRequired("input")
	_ = datasetCmd.MarkFlagRequired("output")
}
